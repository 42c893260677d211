package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-trust-sdk/anchor"
)

func TestWriteReadRoundTrip(t *testing.T) {
	client := New("eip155:1")
	ctx := context.Background()

	payload := anchor.Payload{CredentialID: "urn:uuid:1", Digest: "zDigest"}

	ref, err := client.Write(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, "eip155:1", ref.ChainID)
	assert.NotEmpty(t, ref.TxRef)
	assert.Equal(t, 1, client.Len())

	got, err := client.Read(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadMissingRecord(t *testing.T) {
	client := New("eip155:1")

	_, err := client.Read(context.Background(), anchor.Ref{ChainID: "eip155:1", TxRef: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
	assert.Contains(t, err.Error(), "eip155:1")
}

func TestWritesGetDistinctRefs(t *testing.T) {
	client := New("eip155:1")
	ctx := context.Background()

	first, err := client.Write(ctx, anchor.Payload{Digest: "zA"})
	require.NoError(t, err)

	second, err := client.Write(ctx, anchor.Payload{Digest: "zB"})
	require.NoError(t, err)

	assert.NotEqual(t, first.TxRef, second.TxRef)
	assert.Equal(t, 2, client.Len())
}
