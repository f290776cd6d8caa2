package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/restokitchen/pos/models"
	"github.com/restokitchen/pos/utils"
)

const menuSeededKey = "menu_seeded"

// seedMenus is the starter catalog written exactly once into an empty
// store, one dish per category.
var seedMenus = []models.Menu{
	{Name: "Truffle Mushroom Risotto", Price: 450, Category: models.CategoryMain, Available: true, Description: "Creamy arborio rice with black truffle oil."},
	{Name: "Crispy Calamari", Price: 320, Category: models.CategoryStarters, Available: true, Description: "Golden fried squid with lime aioli."},
	{Name: "Spiced Chai Latte", Price: 180, Category: models.CategoryDrinks, Available: true, Description: "House-made spice blend with oat milk."},
	{Name: "Lava Cake", Price: 250, Category: models.CategoryDesserts, Available: true, Description: "Warm chocolate cake with molten center."},
}

type MenuService struct {
	DB *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{DB: db}
}

// MenuInput is a new catalog entry before validation.
type MenuInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// MenuPatch carries partial edits; nil fields are left untouched.
type MenuPatch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Available   *bool    `json:"available"`
	Description *string  `json:"description"`
}

// List returns the catalog, optionally narrowed to a category ("all"
// passes everything) and a case-insensitive substring of the name.
func (s *MenuService) List(category, search string) ([]models.Menu, error) {
	q := s.DB.Model(&models.Menu{}).Order("name asc")
	if category != "" && category != models.CategoryAll {
		q = q.Where("category = ?", category)
	}
	if search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var menus []models.Menu
	if err := q.Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (s *MenuService) Get(id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := s.DB.First(&menu, id).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

// Create validates and persists a new menu item, always Available.
func (s *MenuService) Create(in MenuInput) (*models.Menu, error) {
	if strings.TrimSpace(in.Name) == "" || in.Price <= 0 {
		return nil, ErrMenuInvalid
	}
	category := in.Category
	if !models.ValidCategory(category) {
		category = models.CategoryMain
	}

	menu := models.Menu{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Category:    category,
		Available:   true,
		Description: in.Description,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&menu).Error; err != nil {
			return err
		}
		return recordChange(tx, "menus", menu.ID, actionInsert)
	})
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// Update applies a partial edit. Order item snapshots are decoupled
// from the catalog, so price or name edits never rewrite past orders.
func (s *MenuService) Update(id uint, patch MenuPatch) (*models.Menu, error) {
	var menu models.Menu
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&menu, id).Error; err != nil {
			return err
		}
		if patch.Name != nil {
			if strings.TrimSpace(*patch.Name) == "" {
				return ErrMenuInvalid
			}
			menu.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Price != nil {
			if *patch.Price <= 0 {
				return ErrMenuInvalid
			}
			menu.Price = *patch.Price
		}
		if patch.Category != nil && models.ValidCategory(*patch.Category) {
			menu.Category = *patch.Category
		}
		if patch.Available != nil {
			menu.Available = *patch.Available
		}
		if patch.Description != nil {
			menu.Description = *patch.Description
		}
		if err := tx.Save(&menu).Error; err != nil {
			return err
		}
		return recordChange(tx, "menus", menu.ID, actionUpdate)
	})
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// Delete removes a catalog entry. Existing orders keep their
// snapshotted lines; nothing cascades.
func (s *MenuService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var menu models.Menu
		if err := tx.First(&menu, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&menu).Error; err != nil {
			return err
		}
		return recordChange(tx, "menus", id, actionDelete)
	})
}

// EnsureSeeded writes the starter catalog into an empty store. The
// settings marker row is inserted first: when two terminals detect an
// empty catalog at the same time, the second insert fails on the
// primary key and that caller backs off, so the seed set is written
// exactly once.
func (s *MenuService) EnsureSeeded() error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Menu{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		marker := models.Setting{Key: menuSeededKey, Value: "1"}
		if err := tx.Create(&marker).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}

		for i := range seedMenus {
			menu := seedMenus[i]
			if err := tx.Create(&menu).Error; err != nil {
				return err
			}
			if err := recordChange(tx, "menus", menu.ID, actionInsert); err != nil {
				return err
			}
		}
		utils.InfoLogger.Printf("Seeded menu with %d starter items", len(seedMenus))
		return nil
	})
}
