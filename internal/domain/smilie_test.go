package domain

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/testutil"
	"github.com/whazzastream/backend/pkg/xcontext"
)

func Test_smilieCatalogue_MissingFile(t *testing.T) {
	ctx := testutil.MockContext(t)
	c := NewSmilieCatalogue(xcontext.Configs(ctx).File.SmiliePath, repository.NewSettingRepository())

	// A missing file is an empty catalogue, not an error.
	require.Empty(t, c.GetAll(ctx))

	_, ok := c.Price(ctx, "melting")
	require.False(t, ok)
}

func Test_smilieCatalogue_LegacyListMigration(t *testing.T) {
	ctx := testutil.MockContext(t)
	path := xcontext.Configs(ctx).File.SmiliePath

	legacy, err := json.Marshal(map[string]any{"smilies": []string{"melting", "rainbow"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, legacy, 0o644))

	c := NewSmilieCatalogue(path, repository.NewSettingRepository())

	// Every legacy entry is priced at the global smilie cost.
	all := c.GetAll(ctx)
	require.Equal(t, map[string]int{"melting": 50, "rainbow": 50}, all)

	// The file itself is rewritten into the price-map format.
	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var file struct {
		Smilies map[string]int `json:"smilies"`
	}
	require.NoError(t, json.Unmarshal(b, &file))
	require.Equal(t, map[string]int{"melting": 50, "rainbow": 50}, file.Smilies)
}

func Test_smilieCatalogue_Edits(t *testing.T) {
	ctx := testutil.MockContext(t)
	path := xcontext.Configs(ctx).File.SmiliePath
	c := NewSmilieCatalogue(path, repository.NewSettingRepository())

	require.NoError(t, c.Add(ctx, "party", 80))
	price, ok := c.Price(ctx, "party")
	require.True(t, ok)
	require.Equal(t, 80, price)

	require.NoError(t, c.UpdatePrices(ctx, map[string]int{"party": 120, "ghost": 10}))
	price, _ = c.Price(ctx, "party")
	require.Equal(t, 120, price)

	// Repricing never creates entries.
	_, ok = c.Price(ctx, "ghost")
	require.False(t, ok)

	require.NoError(t, c.Delete(ctx, "party"))
	_, ok = c.Price(ctx, "party")
	require.False(t, ok)
}
