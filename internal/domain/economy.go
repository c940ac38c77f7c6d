package domain

import (
	"context"
	"fmt"
	"regexp"

	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/errorx"
	"github.com/whazzastream/backend/pkg/xcontext"
)

var smilieTagPattern = regexp.MustCompile(`:(\w+):`)

// SmilieLockedError denies a chat send which uses a catalogued smilie the
// sender has not unlocked. Tag names the first offending smilie.
type SmilieLockedError struct {
	Tag string
}

func (e SmilieLockedError) Error() string {
	return fmt.Sprintf("smilie :%s: is not unlocked", e.Tag)
}

// Authorization is the successful outcome of a chat-send check: the effect
// to attach (nil if dropped) and the smilie tags the sender may render.
type Authorization struct {
	Effect         *string
	VisibleSmilies []string
}

type EconomyEngine struct {
	userRepo    repository.UserRepository
	settingRepo repository.SettingRepository
	smilies     *SmilieCatalogue
}

func NewEconomyEngine(
	userRepo repository.UserRepository,
	settingRepo repository.SettingRepository,
	smilies *SmilieCatalogue,
) *EconomyEngine {
	return &EconomyEngine{
		userRepo:    userRepo,
		settingRepo: settingRepo,
		smilies:     smilies,
	}
}

// AuthorizeMessage validates one chat-send attempt. The caller must invoke
// it inside a database transaction: the effect-inventory decrement it
// performs has to commit or roll back together with the message insert, so
// a denial leaves no side effects at all.
//
// An effect outside the catalogue, or one with no remaining inventory, is
// dropped silently rather than denied.
func (e *EconomyEngine) AuthorizeMessage(
	ctx context.Context, user *entity.User, requestedEffect, text string,
) (*Authorization, error) {
	var effect *string
	if entity.AllowedEffects[requestedEffect] && user.EffectInventory[requestedEffect] > 0 {
		user.EffectInventory[requestedEffect]--
		err := e.userRepo.UpdateByUsername(ctx, user.Username, map[string]any{
			"effect_inventory": user.EffectInventory,
		})
		if err != nil {
			return nil, err
		}

		effect = &requestedEffect
	}

	catalogue := e.smilies.GetAll(ctx)

	var visible []string
	for _, match := range smilieTagPattern.FindAllStringSubmatch(text, -1) {
		tag := match[1]
		if _, catalogued := catalogue[tag]; !catalogued {
			continue
		}

		if !user.UnlockedSmilies.Contains(tag) {
			return nil, SmilieLockedError{Tag: tag}
		}

		visible = append(visible, tag)
	}

	return &Authorization{Effect: effect, VisibleSmilies: visible}, nil
}

// Purchase debits points and applies exactly one of: set color, set font,
// unlock smilie, or increment effect inventory. The debit and the grant are
// one transaction.
func (e *EconomyEngine) Purchase(ctx context.Context, username, kind, item string) (*entity.User, error) {
	if item == "" {
		return nil, errorx.New(errorx.BadRequest, "Require an item")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user, err := e.userRepo.GetByUsername(ctx, username)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user for purchase: %v", err)
		return nil, errorx.Unknown
	}

	updates := map[string]any{}
	switch kind {
	case "color":
		if _, ok := ColorCatalogue[item]; !ok {
			return nil, errorx.New(errorx.BadRequest, "Unknown color")
		}
		if user.Color == item {
			return nil, errorx.New(errorx.AlreadyExists, "Color is already active")
		}
		user.Color = item
		updates["color"] = item

	case "font":
		if _, ok := FontCatalogue[item]; !ok {
			return nil, errorx.New(errorx.BadRequest, "Unknown font")
		}
		if user.Font != nil && *user.Font == item {
			return nil, errorx.New(errorx.AlreadyExists, "Font is already active")
		}
		user.Font = &item
		updates["font"] = item

	case "smilie":
		if user.UnlockedSmilies.Contains(item) {
			return nil, errorx.New(errorx.AlreadyExists, "Smilie is already unlocked")
		}
		user.UnlockedSmilies = append(user.UnlockedSmilies, item)
		updates["unlocked_smilies"] = user.UnlockedSmilies

	case "effect":
		if !entity.AllowedEffects[item] {
			return nil, errorx.New(errorx.BadRequest, "Unknown effect")
		}
		if user.EffectInventory == nil {
			user.EffectInventory = entity.IntMap{}
		}
		user.EffectInventory[item]++
		updates["effect_inventory"] = user.EffectInventory

	default:
		return nil, errorx.New(errorx.BadRequest, "Unknown purchase kind")
	}

	price := e.Cost(ctx, kind, item)
	if user.Points < price {
		return nil, errorx.New(errorx.NotEnoughPoints, "Not enough points")
	}

	user.Points -= price
	updates["points"] = user.Points

	if err := e.userRepo.UpdateByUsername(ctx, username, updates); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply purchase: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return user, nil
}

// Cost resolves the price of an item: the catalogue price when the catalogue
// is a price map, otherwise the per-kind cost column of the settings row,
// otherwise the hardcoded defaults.
func (e *EconomyEngine) Cost(ctx context.Context, kind, item string) int {
	switch kind {
	case "smilie":
		if price, ok := e.smilies.Price(ctx, item); ok {
			return price
		}
	case "color":
		if price, ok := ColorCatalogue[item]; ok {
			return price
		}
	case "font":
		if price, ok := FontCatalogue[item]; ok {
			return price
		}
	case "effect":
		if price, ok := EffectCatalogue[item]; ok {
			return price
		}
	}

	setting, err := e.settingRepo.Get(ctx)
	if err != nil {
		setting = entity.NewSetting()
	}

	switch kind {
	case "smilie":
		return setting.SmilieCost
	case "color":
		return setting.ColorCost
	case "font":
		return setting.FontCost
	default:
		return setting.EffectCost
	}
}
