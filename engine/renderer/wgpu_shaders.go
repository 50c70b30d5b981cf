package renderer

// uniformsWGSL is shared by both pipelines. color.w carries the point size and
// params.x the fog density; params.y is the assembly scale used to size billboards.
const uniformsWGSL = `
struct Uniforms {
	proj : mat4x4<f32>,
	view : mat4x4<f32>,
	model : mat4x4<f32>,
	color : vec4<f32>,
	params : vec4<f32>,
};
@group(0) @binding(0) var<uniform> u : Uniforms;

fn corner(vi : u32) -> vec2<f32> {
	var corners = array<vec2<f32>, 6>(
		vec2<f32>(-0.5, -0.5), vec2<f32>(0.5, -0.5), vec2<f32>(0.5, 0.5),
		vec2<f32>(-0.5, -0.5), vec2<f32>(0.5, 0.5), vec2<f32>(-0.5, 0.5),
	);
	return corners[vi];
}

fn fog(eyeDepth : f32) -> f32 {
	let f = u.params.x * eyeDepth;
	return exp(-f * f);
}
`

// pointShaderWGSL draws each field point as a camera-facing quad with a soft
// round falloff.
const pointShaderWGSL = uniformsWGSL + `
struct PointOut {
	@builtin(position) clip : vec4<f32>,
	@location(0) local : vec2<f32>,
	@location(1) fog : f32,
};

@vertex
fn vs_main(@builtin(vertex_index) vi : u32, @location(0) pos : vec3<f32>) -> PointOut {
	let c = corner(vi);
	var eye = u.view * u.model * vec4<f32>(pos, 1.0);
	eye = vec4<f32>(eye.xy + c * u.color.w * u.params.y, eye.zw);
	var out : PointOut;
	out.clip = u.proj * eye;
	out.local = c;
	out.fog = fog(-eye.z);
	return out;
}

@fragment
fn fs_main(in : PointOut) -> @location(0) vec4<f32> {
	let r = length(in.local) * 2.0;
	let a = (1.0 - smoothstep(0.5, 1.0, r)) * in.fog;
	if (a <= 0.01) {
		discard;
	}
	return vec4<f32>(u.color.rgb, a);
}
`

// spriteShaderWGSL draws one textured billboard per instance.
const spriteShaderWGSL = uniformsWGSL + `
@group(1) @binding(0) var spriteTexture : texture_2d<f32>;
@group(1) @binding(1) var spriteSampler : sampler;

struct SpriteOut {
	@builtin(position) clip : vec4<f32>,
	@location(0) uv : vec2<f32>,
	@location(1) alpha : f32,
};

@vertex
fn vs_main(
	@builtin(vertex_index) vi : u32,
	@location(0) center : vec4<f32>,
	@location(1) size : vec4<f32>,
) -> SpriteOut {
	let c = corner(vi);
	var eye = u.view * u.model * vec4<f32>(center.xyz, 1.0);
	eye = vec4<f32>(eye.xy + c * size.xy * u.params.y, eye.zw);
	var out : SpriteOut;
	out.clip = u.proj * eye;
	out.uv = vec2<f32>(c.x + 0.5, 0.5 - c.y);
	out.alpha = center.w * fog(-eye.z);
	return out;
}

@fragment
fn fs_main(in : SpriteOut) -> @location(0) vec4<f32> {
	let texel = textureSample(spriteTexture, spriteSampler, in.uv);
	return vec4<f32>(texel.rgb, texel.a * in.alpha);
}
`
