package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/reviewgate/internal/llm"
	"github.com/sevigo/reviewgate/mocks"
)

func limitedProvider(ctrl *gomock.Controller, available bool, limit int) *mocks.MockProvider {
	p := mocks.NewMockProvider(ctrl)
	p.EXPECT().Available().Return(available).AnyTimes()
	p.EXPECT().ContextLimit().Return(limit).AnyTimes()
	return p
}

func TestProviderContextLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("first available provider wins", func(t *testing.T) {
		primary := limitedProvider(ctrl, false, 200_000)
		fallback := limitedProvider(ctrl, true, 8_192)

		got := providerContextLimit([]llm.Provider{primary, fallback})
		assert.Equal(t, 8_192, got, "budget must follow the provider that will serve the calls")
	})

	t.Run("available primary is used directly", func(t *testing.T) {
		primary := limitedProvider(ctrl, true, 200_000)
		fallback := limitedProvider(ctrl, true, 8_192)

		got := providerContextLimit([]llm.Provider{primary, fallback})
		assert.Equal(t, 200_000, got)
	})

	t.Run("none available falls back to the primary window", func(t *testing.T) {
		primary := limitedProvider(ctrl, false, 200_000)

		got := providerContextLimit([]llm.Provider{primary})
		assert.Equal(t, 200_000, got)
	})

	t.Run("no providers", func(t *testing.T) {
		assert.Zero(t, providerContextLimit(nil))
	})
}
