package views

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/astra-console/internal/models/dto"
)

func TestRenderLogin(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "login", dto.LoginView{Email: "anna@example.com", Error: "<b>no</b>"}))
	out := buf.String()
	assert.Contains(t, out, `value="anna@example.com"`)
	assert.Contains(t, out, "&lt;b&gt;no&lt;/b&gt;")
	assert.Contains(t, out, "Accesso · Astra Mining")
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Error(t, r.Render(&bytes.Buffer{}, "missing", nil))
}
