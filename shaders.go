package tilegl

// WGSL programs of the overlay. The circle shader is templated on the
// quad capacity so the uniform array length always matches the derived
// batch size.

const collisionBoxShaderWGSL = `
struct BoxUniforms {
    matrix: mat4x4<f32>,
    extrude_scale: vec2<f32>,
    camera_to_center_distance: f32,
    pad: f32,
    color: vec4<f32>,
    collision_color: vec4<f32>,
};

@group(0) @binding(0) var<uniform> ubo: BoxUniforms;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
};

@vertex
fn vs_main(@location(0) pos: vec2<f32>, @location(1) extrude: vec2<f32>) -> VertexOutput {
    var out: VertexOutput;
    let projected = ubo.matrix * vec4<f32>(pos, 0.0, 1.0);
    // Keep outline width constant on screen as the anchor recedes.
    let perspective_ratio = clamp(0.5 + 0.5 * (ubo.camera_to_center_distance / projected.w), 0.0, 4.0);
    out.position = projected + vec4<f32>(extrude * ubo.extrude_scale * projected.w * perspective_ratio, 0.0, 0.0);
    out.color = ubo.color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return in.color;
}
`

const collisionCircleShaderWGSLTemplate = `
struct CircleUniforms {
    matrix: mat4x4<f32>,
    inv_matrix: mat4x4<f32>,
    viewport_size: vec2<f32>,
    camera_to_center_distance: f32,
    pad: f32,
    color: vec4<f32>,
    collision_color: vec4<f32>,
    quads: array<vec4<f32>, %d>,
};

@group(0) @binding(0) var<uniform> ubo: CircleUniforms;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) extrude: vec2<f32>,
    @location(1) radius: f32,
    @location(2) collision: f32,
};

var<private> corners: array<vec2<f32>, 4> = array<vec2<f32>, 4>(
    vec2<f32>(-1.0, -1.0), vec2<f32>(1.0, -1.0),
    vec2<f32>(1.0, 1.0), vec2<f32>(-1.0, 1.0),
);

@vertex
fn vs_main(@location(0) id: vec2<i32>) -> VertexOutput {
    let vertex_idx = id.x;
    let quad_idx = vertex_idx / 4;
    let corner = corners[vertex_idx & 3];
    let props = ubo.quads[quad_idx];

    // props.xy is the circle center as projected at placement time.
    // inv_matrix carries it into tile units under the current camera,
    // matrix brings it back to clip space.
    let tile_pos = ubo.inv_matrix * vec4<f32>(props.xy, 0.0, 1.0);
    var clip = ubo.matrix * vec4<f32>(tile_pos.xyz / tile_pos.w, 1.0);

    let padding = 0.5;
    let extent = props.z + padding;
    clip += vec4<f32>(corner * extent * 2.0 / ubo.viewport_size * clip.w, 0.0, 0.0);

    var out: VertexOutput;
    out.position = clip;
    out.extrude = corner;
    out.radius = props.z;
    out.collision = props.w;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let padding = 0.5;
    let dist = length(in.extrude) * (in.radius + padding);
    if dist > in.radius {
        discard;
    }
    var rgba = ubo.color;
    if in.collision > 0.5 {
        rgba = ubo.collision_color;
    }
    return vec4<f32>(rgba.rgb * rgba.a, rgba.a) * 0.5;
}
`
