package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateRegistry_BulkAppend(t *testing.T) {
	ids := NewIDSource(fixedClock(time.UnixMilli(42_000)))
	reg := NewCertificateRegistry([]Certificate{
		{ID: 1, Name: "TATA GenAI Powered Data Analytics", URL: "/certificates/tata_genai.pdf"},
	}, ids, &fakeRefs{})

	got, err := reg.BulkAppend([]File{{Name: "aws.pdf"}, {Name: "gcp.pdf"}})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "aws.pdf", got[1].Name)
	assert.Equal(t, "gcp.pdf", got[2].Name)
	assert.Equal(t, int64(42_000), got[1].ID)
	assert.Equal(t, int64(42_001), got[2].ID)
	assert.Equal(t, "/blobs/test-1", got[1].URL)
}

func TestCertificateRegistry_EmptyUpload(t *testing.T) {
	reg := NewCertificateRegistry(nil, NewIDSource(nil), &fakeRefs{})

	got, err := reg.BulkAppend(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
