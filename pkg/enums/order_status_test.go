package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, raw := range []string{"created", "in_progress", "done"} {
		status, err := ParseOrderStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, status.String())
		assert.True(t, status.IsValid())
	}

	_, err := ParseOrderStatus("cancelled")
	assert.Error(t, err)
}

func TestOrderStatusNext(t *testing.T) {
	next, ok := OrderStatusCreated.Next()
	require.True(t, ok)
	assert.Equal(t, OrderStatusInProgress, next)

	next, ok = OrderStatusInProgress.Next()
	require.True(t, ok)
	assert.Equal(t, OrderStatusDone, next)

	_, ok = OrderStatusDone.Next()
	assert.False(t, ok)
}

func TestContainerKindIsValid(t *testing.T) {
	assert.True(t, ContainerKindCart.IsValid())
	assert.True(t, ContainerKindWishlist.IsValid())
	assert.False(t, ContainerKind("basket").IsValid())
}
