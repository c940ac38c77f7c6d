package domain

import (
	"context"
	"sort"

	"github.com/whazzastream/backend/internal/domain/notification"
	"github.com/whazzastream/backend/internal/domain/notification/event"
	"github.com/whazzastream/backend/internal/model"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/errorx"
	"github.com/whazzastream/backend/pkg/xcontext"
)

type ShopDomain interface {
	GetCatalog(ctx context.Context, req *model.GetCatalogRequest) (*model.GetCatalogResponse, error)
	Buy(ctx context.Context, req *model.BuyRequest) (*model.BuyResponse, error)
	GetEffectInventory(ctx context.Context, req *model.GetEffectInventoryRequest) (*model.GetEffectInventoryResponse, error)
	GetUnlockedSmilies(ctx context.Context, req *model.GetUnlockedSmiliesRequest) (*model.GetUnlockedSmiliesResponse, error)
}

type shopDomain struct {
	userRepo repository.UserRepository
	economy  *EconomyEngine
	smilies  *SmilieCatalogue
	hub      *notification.Hub
}

func NewShopDomain(
	userRepo repository.UserRepository,
	economy *EconomyEngine,
	smilies *SmilieCatalogue,
	hub *notification.Hub,
) *shopDomain {
	return &shopDomain{
		userRepo: userRepo,
		economy:  economy,
		smilies:  smilies,
		hub:      hub,
	}
}

func (d *shopDomain) GetCatalog(
	ctx context.Context, req *model.GetCatalogRequest,
) (*model.GetCatalogResponse, error) {
	user, err := d.userRepo.GetByUsername(ctx, xcontext.RequestUsername(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	var items []model.ShopItem
	switch req.Kind {
	case "color":
		for name, cost := range ColorCatalogue {
			items = append(items, model.ShopItem{
				Name:   name,
				Cost:   cost,
				Active: user.Color == name,
			})
		}

	case "font":
		for name, cost := range FontCatalogue {
			items = append(items, model.ShopItem{
				Name:   name,
				Cost:   cost,
				Active: user.Font != nil && *user.Font == name,
			})
		}

	case "smilie":
		for name, cost := range d.smilies.GetAll(ctx) {
			items = append(items, model.ShopItem{
				Name:     name,
				Cost:     cost,
				Unlocked: user.UnlockedSmilies.Contains(name),
			})
		}

	case "effect":
		for name, cost := range EffectCatalogue {
			items = append(items, model.ShopItem{
				Name: name,
				Cost: cost,
			})
		}

	default:
		return nil, errorx.New(errorx.BadRequest, "Unknown catalogue kind")
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Cost != items[j].Cost {
			return items[i].Cost < items[j].Cost
		}
		return items[i].Name < items[j].Name
	})

	return &model.GetCatalogResponse{Items: items}, nil
}

func (d *shopDomain) Buy(ctx context.Context, req *model.BuyRequest) (*model.BuyResponse, error) {
	username := xcontext.RequestUsername(ctx)
	user, err := d.economy.Purchase(ctx, username, req.Kind, req.Item)
	if err != nil {
		return nil, err
	}

	points := user.Points
	d.hub.Emit(event.New(
		(*event.UserDataChangedEvent)(&model.UserData{
			Username: user.Username,
			Points:   &points,
			Color:    user.Color,
			Font:     user.Font,
			Effects:  user.EffectInventory,
		}),
		nil,
	))

	return &model.BuyResponse{
		NewPoints: user.Points,
		NewColor:  user.Color,
		NewFont:   user.Font,
	}, nil
}

func (d *shopDomain) GetEffectInventory(
	ctx context.Context, req *model.GetEffectInventoryRequest,
) (*model.GetEffectInventoryResponse, error) {
	user, err := d.userRepo.GetByUsername(ctx, xcontext.RequestUsername(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	inventory := map[string]int{}
	for effect, count := range user.EffectInventory {
		if count > 0 {
			inventory[effect] = count
		}
	}

	return &model.GetEffectInventoryResponse{Inventory: inventory}, nil
}

func (d *shopDomain) GetUnlockedSmilies(
	ctx context.Context, req *model.GetUnlockedSmiliesRequest,
) (*model.GetUnlockedSmiliesResponse, error) {
	user, err := d.userRepo.GetByUsername(ctx, xcontext.RequestUsername(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetUnlockedSmiliesResponse{Smilies: user.UnlockedSmilies}, nil
}
