package wrap

// Fixed header/trailer pairs per (language, mode). Headers declare the
// uniforms and varyings the preview surface binds at draw time; trailers
// write the user's output value to the stage's required output slot.
//
// Every header ends with a newline so the first user-code line lands on
// line offset+1 of the full module. Wrap derives UserLineOffset by
// counting newlines here, so template edits cannot desynchronize the
// diagnostic remapping.

type templateKey struct {
	lang Language
	mode Mode
}

type template struct {
	header  string
	trailer string
}

var templates = map[templateKey]template{
	{LangSlang, ModeMaterial}: {
		header: `uniform float iTime;
uniform float iTimeDelta;
uniform int iFrame;
uniform float4 iMouse;
uniform float3 iResolution;

[shader("fragment")]
float4 main(float4 position: SV_Position): SV_Target
{
    float2 fragCoord = position.xy;
    float2 uv = fragCoord / iResolution.xy;
    float4 outColor = float4(0.0, 0.0, 0.0, 1.0);
`,
		trailer: `    return outColor;
}
`,
	},

	{LangSlang, ModeShaderToy}: {
		header: `uniform float iTime;
uniform float iTimeDelta;
uniform int iFrame;
uniform float4 iMouse;
uniform float3 iResolution;

void mainImage(out float4 fragColor, in float2 fragCoord);

`,
		trailer: `
[shader("fragment")]
float4 main(float4 position: SV_Position): SV_Target
{
    float4 outColor = float4(0.0, 0.0, 0.0, 1.0);
    mainImage(outColor, position.xy);
    return outColor;
}
`,
	},

	{LangGlsl, ModeMaterial}: {
		header: `#version 310 es
precision highp float;
precision highp int;

uniform float iTime;
uniform float iTimeDelta;
uniform int iFrame;
uniform vec4 iMouse;
uniform vec3 iResolution;

layout(location = 0) out vec4 outColor;

void main()
{
    vec2 fragCoord = gl_FragCoord.xy;
    vec2 uv = fragCoord / iResolution.xy;
    outColor = vec4(0.0, 0.0, 0.0, 1.0);
`,
		trailer: `}
`,
	},

	{LangGlsl, ModeShaderToy}: {
		header: `#version 310 es
precision highp float;
precision highp int;

uniform float iTime;
uniform float iTimeDelta;
uniform int iFrame;
uniform vec4 iMouse;
uniform vec3 iResolution;

layout(location = 0) out vec4 outColor;

void mainImage(out vec4 fragColor, in vec2 fragCoord);

`,
		trailer: `
void main()
{
    outColor = vec4(0.0, 0.0, 0.0, 1.0);
    mainImage(outColor, gl_FragCoord.xy);
}
`,
	},
}
