package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderIsEmpty(t *testing.T) {
	p := NewBindGroupProvider("frame uniforms")

	assert.Equal(t, "frame uniforms", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.BindGroupLayout())
	assert.Nil(t, p.Buffer(0))
	assert.Empty(t, p.VertexBuffers())
	assert.Nil(t, p.IndexBuffer())
	assert.Zero(t, p.IndexCount())
}

func TestReleaseWithoutGPUObjects(t *testing.T) {
	p := NewBindGroupProvider("mesh", WithBuffer(0, nil))
	p.SetIndexCount(6912)
	p.SetVertexBuffers(nil)

	assert.NotPanics(t, func() {
		p.Release()
		p.Release()
	})
	assert.Zero(t, p.IndexCount())
}
