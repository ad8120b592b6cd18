package gpu

// Both kernels operate on rasters unpacked to one u32 per byte-channel:
// the host widens each uint8 to a little-endian u32 before upload and
// takes the low byte back after readback. This keeps the WGSL free of
// byte-level addressing.

const grayscaleShaderSource = `
struct Params {
    width: u32,
    height: u32,
    channels: u32,
    radius: u32,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read> src: array<u32>;
@group(0) @binding(2) var<storage, read_write> dst: array<u32>;

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let idx = gid.x;
    if (idx >= params.width * params.height) {
        return;
    }
    let base = idx * params.channels;
    let r = f32(src[base]);
    let g = f32(src[base + 1u]);
    let b = f32(src[base + 2u]);
    dst[idx] = u32(0.299 * r + 0.587 * g + 0.114 * b);
}
`

// Box blur accumulates in u32 and divides by the sample count, so GPU
// results may differ from the float host path by at most one level.
const boxBlurShaderSource = `
struct Params {
    width: u32,
    height: u32,
    channels: u32,
    radius: u32,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read> src: array<u32>;
@group(0) @binding(2) var<storage, read_write> dst: array<u32>;

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let idx = gid.x;
    if (idx >= params.width * params.height) {
        return;
    }
    let w = i32(params.width);
    let h = i32(params.height);
    let x = i32(idx % params.width);
    let y = i32(idx / params.width);
    let r = i32(params.radius);

    for (var c: u32 = 0u; c < params.channels; c = c + 1u) {
        var sum: u32 = 0u;
        var count: u32 = 0u;
        for (var ky: i32 = -r; ky <= r; ky = ky + 1) {
            let ny = y + ky;
            if (ny < 0 || ny >= h) {
                continue;
            }
            for (var kx: i32 = -r; kx <= r; kx = kx + 1) {
                let nx = x + kx;
                if (nx < 0 || nx >= w) {
                    continue;
                }
                let si = (u32(ny) * params.width + u32(nx)) * params.channels + c;
                sum = sum + src[si];
                count = count + 1u;
            }
        }
        dst[idx * params.channels + c] = sum / count;
    }
}
`
