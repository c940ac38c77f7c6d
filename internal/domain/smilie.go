package domain

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync"
	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/xcontext"
)

// SmilieCatalogue maps smilie names to purchase prices. It is backed by a
// JSON side file next to the smilie images, cached in memory because reads
// vastly outnumber admin edits; every edit invalidates the cache.
//
// The legacy file format was a plain list of names; it self-migrates to the
// price-map format on first read, pricing every entry at the global smilie
// cost.
type SmilieCatalogue struct {
	path        string
	settingRepo repository.SettingRepository

	cache  *xsync.MapOf[string, int]
	loaded atomic.Bool
	mutex  sync.Mutex
}

type smilieFile struct {
	Smilies json.RawMessage `json:"smilies"`
}

func NewSmilieCatalogue(path string, settingRepo repository.SettingRepository) *SmilieCatalogue {
	return &SmilieCatalogue{
		path:        path,
		settingRepo: settingRepo,
		cache:       xsync.NewMapOf[int](),
	}
}

func (c *SmilieCatalogue) GetAll(ctx context.Context) map[string]int {
	if !c.loaded.Load() {
		if err := c.load(ctx); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load smilie catalogue: %v", err)
			return map[string]int{}
		}
	}

	all := map[string]int{}
	c.cache.Range(func(name string, price int) bool {
		all[name] = price
		return true
	})

	return all
}

func (c *SmilieCatalogue) Price(ctx context.Context, name string) (int, bool) {
	if !c.loaded.Load() {
		if err := c.load(ctx); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load smilie catalogue: %v", err)
			return 0, false
		}
	}

	price, ok := c.cache.Load(name)
	return price, ok
}

func (c *SmilieCatalogue) Add(ctx context.Context, name string, price int) error {
	return c.edit(ctx, func(smilies map[string]int) {
		smilies[name] = price
	})
}

func (c *SmilieCatalogue) Delete(ctx context.Context, name string) error {
	return c.edit(ctx, func(smilies map[string]int) {
		delete(smilies, name)
	})
}

func (c *SmilieCatalogue) UpdatePrices(ctx context.Context, prices map[string]int) error {
	return c.edit(ctx, func(smilies map[string]int) {
		for name, price := range prices {
			if _, ok := smilies[name]; ok && price >= 0 {
				smilies[name] = price
			}
		}
	})
}

func (c *SmilieCatalogue) edit(ctx context.Context, apply func(map[string]int)) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	smilies, err := c.read(ctx)
	if err != nil {
		return err
	}

	apply(smilies)

	if err := c.write(smilies); err != nil {
		return err
	}

	c.loaded.Store(false)
	return nil
}

func (c *SmilieCatalogue) load(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.loaded.Load() {
		return nil
	}

	smilies, err := c.read(ctx)
	if err != nil {
		return err
	}

	c.cache.Range(func(name string, _ int) bool {
		c.cache.Delete(name)
		return true
	})
	for name, price := range smilies {
		c.cache.Store(name, price)
	}

	c.loaded.Store(true)
	return nil
}

func (c *SmilieCatalogue) read(ctx context.Context) (map[string]int, error) {
	b, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]int{}, nil
		}
		return nil, err
	}

	var file smilieFile
	if err := json.Unmarshal(b, &file); err != nil {
		return nil, err
	}

	smilies := map[string]int{}
	if len(file.Smilies) > 0 {
		if err := json.Unmarshal(file.Smilies, &smilies); err == nil {
			return smilies, nil
		}

		// Legacy format: a plain list of names. Migrate in place with the
		// global smilie cost as the price of every entry.
		var names []string
		if err := json.Unmarshal(file.Smilies, &names); err != nil {
			return nil, err
		}

		price := c.defaultPrice(ctx)
		for _, name := range names {
			smilies[name] = price
		}

		if err := c.write(smilies); err != nil {
			return nil, err
		}
	}

	return smilies, nil
}

func (c *SmilieCatalogue) defaultPrice(ctx context.Context) int {
	setting, err := c.settingRepo.Get(ctx)
	if err != nil {
		return entity.DefaultSmilieCost
	}

	return setting.SmilieCost
}

func (c *SmilieCatalogue) write(smilies map[string]int) error {
	b, err := json.MarshalIndent(map[string]any{"smilies": smilies}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(c.path, b, 0o644)
}
