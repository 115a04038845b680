package lexicon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoreTaxSentiment/internal/domain"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	c := New(nil, []string{"antri"})
	got, err := c.Classify(context.Background(), []string{
		"aplikasi bagus mantap",
		"aplikasi error lagi",
		"aplikasi tidak bagus",
		"bagus tapi error",
		"mau lapor spt",
		"antri lama",
	})
	require.NoError(t, err)
	require.Len(t, got, 6)

	assert.Equal(t, domain.Prediction{Label: domain.LabelPositive, Score: 1}, got[0])
	assert.Equal(t, domain.Prediction{Label: domain.LabelNegative, Score: 1}, got[1])
	assert.Equal(t, domain.LabelNegative, got[2].Label)
	assert.Equal(t, domain.Prediction{Label: domain.LabelNeutral, Score: 0.5}, got[3])
	assert.Equal(t, domain.Prediction{Label: domain.LabelNeutral, Score: 1}, got[4])
	assert.Equal(t, domain.LabelNegative, got[5].Label)
}

func TestClassifyCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil, nil).Classify(ctx, []string{"bagus"})
	assert.ErrorIs(t, err, context.Canceled)
}
