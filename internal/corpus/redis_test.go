package corpus

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimtrackr/internal/model"
)

func TestDecodeClaims(t *testing.T) {
	claims, err := decodeClaims([]string{
		`{"id":"CLM-1","patient_name":"Alice","amount":"1000","date":"2024-01-01"}`,
		`{"id":"CLM-2","patient_name":"Bob"}`,
	})
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.Equal(t, "Alice", claims[0].PatientName)
	assert.Equal(t, "CLM-2", claims[1].ID)

	_, err = decodeClaims([]string{"not json"})
	assert.ErrorContains(t, err, "decode claim 0")
}

func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("CLAIMTRACKR_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("Requires Redis (set CLAIMTRACKR_TEST_REDIS_ADDR)")
	}

	ctx := context.Background()
	store, err := OpenRedis(ctx, addr, 0, "claimtrackr:test:"+model.NewClaimID())
	require.NoError(t, err)
	defer func() {
		_ = store.client.Del(ctx, store.key).Err()
		_ = store.Close()
	}()

	require.NoError(t, store.Append(ctx, model.Claim{ID: "CLM-1"}))
	require.NoError(t, store.Append(ctx, model.Claim{ID: "CLM-2"}))

	claims, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CLM-1", "CLM-2"}, ids(claims))
}
