package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/catalog"
)

var sample = catalog.Catalog{
	{ID: "1", Name: "Chair", Price: "20", Images: []string{"a.jpg", "b.jpg"}},
	{ID: "2", Name: "Lamp, brass", Price: "", Images: []string{}},
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,price,images,image_count,sold", lines[0])
	assert.Equal(t, "1,Chair,20,a.jpg;b.jpg,2,false", lines[1])
	assert.Equal(t, `2,"Lamp, brass",,,0,false`, lines[2])
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "catalog.csv")
	require.NoError(t, WriteFile(path, sample))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,name,price"))
}
