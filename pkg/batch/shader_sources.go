package batch

// Shader sources for the sprite batch. Attribute locations follow
// SpriteLayout; u_Textures has MaxTextureUnits entries.

// SpriteVertexSource transforms sprite vertices by the camera matrix
const SpriteVertexSource = `
#version 410 core
layout (location = 0) in vec3 a_Position;
layout (location = 1) in vec4 a_Color;
layout (location = 2) in vec2 a_TexCoord;
layout (location = 3) in float a_TexIndex;

uniform mat4 u_ViewProjection;

out vec4 v_Color;
out vec2 v_TexCoord;
flat out float v_TexIndex;

void main() {
    v_Color = a_Color;
    v_TexCoord = a_TexCoord;
    v_TexIndex = a_TexIndex;
    gl_Position = u_ViewProjection * vec4(a_Position, 1.0);
}
`

// SpriteFragmentSource samples the slot texture, or uses the vertex color
// when the slot is negative
const SpriteFragmentSource = `
#version 410 core
in vec4 v_Color;
in vec2 v_TexCoord;
flat in float v_TexIndex;

uniform sampler2D u_Textures[16];

out vec4 FragColor;

vec4 sampleSlot(int slot, vec2 uv) {
    // Sampler arrays may only be indexed with constants in GLSL 4.10.
    switch (slot) {
    case 0: return texture(u_Textures[0], uv);
    case 1: return texture(u_Textures[1], uv);
    case 2: return texture(u_Textures[2], uv);
    case 3: return texture(u_Textures[3], uv);
    case 4: return texture(u_Textures[4], uv);
    case 5: return texture(u_Textures[5], uv);
    case 6: return texture(u_Textures[6], uv);
    case 7: return texture(u_Textures[7], uv);
    case 8: return texture(u_Textures[8], uv);
    case 9: return texture(u_Textures[9], uv);
    case 10: return texture(u_Textures[10], uv);
    case 11: return texture(u_Textures[11], uv);
    case 12: return texture(u_Textures[12], uv);
    case 13: return texture(u_Textures[13], uv);
    case 14: return texture(u_Textures[14], uv);
    case 15: return texture(u_Textures[15], uv);
    }
    return vec4(1.0);
}

void main() {
    int slot = int(v_TexIndex);
    if (slot < 0) {
        FragColor = v_Color;
        return;
    }
    vec4 texColor = sampleSlot(slot, v_TexCoord) * v_Color;
    if (texColor.a < 0.01) {
        discard;
    }
    FragColor = texColor;
}
`
