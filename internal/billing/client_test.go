package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeClient(t *testing.T) {
	got, err := NormalizeClient(Party{Name: "  Acme Ltd ", Email: " Info@Acme.COM ", Address: " Istanbul\n"})
	require.NoError(t, err)
	assert.Equal(t, Party{Name: "Acme Ltd", Email: "info@acme.com", Address: "Istanbul"}, got)

	_, err = NormalizeClient(Party{Name: "   ", Email: "x@y.z"})
	assert.ErrorIs(t, err, ErrClientNameRequired)
}

func TestIsDuplicateClient(t *testing.T) {
	existing := []Party{
		{Name: "Acme", Email: "foo@bar.com"},
		{Name: "Globex", Email: ""},
	}

	assert.True(t, IsDuplicateClient(Party{Name: " Acme", Email: "Foo@Bar.com"}, existing))
	assert.True(t, IsDuplicateClient(Party{Name: "GLOBEX"}, existing))
	assert.False(t, IsDuplicateClient(Party{Name: "Acme", Email: "other@bar.com"}, existing))
	assert.False(t, IsDuplicateClient(Party{Name: "Acme"}, nil))
}
