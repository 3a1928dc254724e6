package policy_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailprobe/pkg/policy"
)

type fakeRemote map[string][]byte

func (f fakeRemote) Read(_ context.Context, uri string) ([]byte, error) {
	data, ok := f[uri]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestJoin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", policy.Join(nil))
	assert.Equal(t, "A\n\n---\n\n", policy.Join([]policy.Document{{Name: "a", Content: "A"}}))
	assert.Equal(t, "A\n\n---\n\nB\n\n---\n\n", policy.Join([]policy.Document{
		{Name: "a", Content: "A"},
		{Name: "b", Content: "B"},
	}))
}

func TestFromBytes(t *testing.T) {
	t.Parallel()

	doc, err := policy.FromBytes("zwroty.txt", []byte("Zwroty przyjmujemy w ciągu 14 dni."))
	require.NoError(t, err)
	assert.Equal(t, "zwroty.txt", doc.Name)
	assert.Equal(t, "Zwroty przyjmujemy w ciągu 14 dni.", doc.Content)

	doc, err = policy.FromBytes("bom.txt", []byte("\xEF\xBB\xBFReturns"))
	require.NoError(t, err)
	assert.Equal(t, "Returns", doc.Content)

	_, err = policy.FromBytes("latin1.txt", []byte{'c', 'a', 'f', 0xE9})
	assert.ErrorIs(t, err, policy.ErrNotUTF8)
	assert.True(t, policy.IsSkippable(err))
}

func TestFromReader_TooLarge(t *testing.T) {
	t.Parallel()

	_, err := policy.FromReader("big.txt", strings.NewReader(strings.Repeat("x", 11)), 10)
	assert.ErrorIs(t, err, policy.ErrTooLarge)

	doc, err := policy.FromReader("fits.txt", strings.NewReader(strings.Repeat("x", 10)), 10)
	require.NoError(t, err)
	assert.Len(t, doc.Content, 10)
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	returns := writeFile(t, dir, "returns.txt", []byte("Returns accepted within 30 days."))
	binary := writeFile(t, dir, "logo.png", []byte{0x89, 'P', 'N', 'G', 0xFF, 0xFE})
	shipping := writeFile(t, dir, "shipping.txt", []byte("Ships in 2 days."))

	remote := fakeRemote{"s3://policies/faq.md": []byte("FAQ")}
	loader := policy.NewLoader(policy.WithObjectReader(remote))

	docs, skipped, err := loader.Load(context.Background(), returns, binary, "s3://policies/faq.md", shipping)
	require.NoError(t, err)

	require.Len(t, docs, 3)
	assert.Equal(t, "returns.txt", docs[0].Name)
	assert.Equal(t, "s3://policies/faq.md", docs[1].Name)
	assert.Equal(t, "shipping.txt", docs[2].Name)

	require.Len(t, skipped, 1)
	assert.Equal(t, binary, skipped[0].Name)
	assert.Contains(t, skipped[0].Reason, "UTF-8")

	assert.Equal(t,
		"Returns accepted within 30 days.\n\n---\n\nFAQ\n\n---\n\nShips in 2 days.\n\n---\n\n",
		policy.Join(docs))
}

func TestLoader_Load_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, _, err := policy.NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
		assert.ErrorIs(t, err, policy.ErrReadFailed)
	})

	t.Run("remote without reader", func(t *testing.T) {
		t.Parallel()
		_, _, err := policy.NewLoader().Load(context.Background(), "s3://policies/faq.md")
		assert.ErrorIs(t, err, policy.ErrRemoteDisabled)
	})

	t.Run("remote failure", func(t *testing.T) {
		t.Parallel()
		loader := policy.NewLoader(policy.WithObjectReader(fakeRemote{}))
		_, _, err := loader.Load(context.Background(), "s3://policies/missing.md")
		assert.ErrorIs(t, err, policy.ErrReadFailed)
	})

	t.Run("remote too large is skipped", func(t *testing.T) {
		t.Parallel()
		loader := policy.NewLoader(
			policy.WithObjectReader(fakeRemote{"s3://p/big": []byte(strings.Repeat("x", 20))}),
			policy.WithMaxSize(10),
		)
		docs, skipped, err := loader.Load(context.Background(), "s3://p/big")
		require.NoError(t, err)
		assert.Empty(t, docs)
		require.Len(t, skipped, 1)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := policy.NewLoader().Load(ctx, "whatever.txt")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
