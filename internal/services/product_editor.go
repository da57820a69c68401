package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"mathiphone/internal/catalog"
	"mathiphone/internal/domain"
	"mathiphone/internal/pricing"
	"mathiphone/internal/repos"
	"mathiphone/internal/validate"
)

// ProductForm is the admin form as typed by the user. Prices are in display
// form ("1.250.000"), features one per line.
type ProductForm struct {
	ID             string
	Name           string
	Model          string
	Type           string
	Storage        string
	Color          string
	Condition      string
	BatteryHealth  string
	PriceARS       string
	PriceUSD       string
	ScreenSize     string
	Chip           string
	Camera         string
	Features       string
	Available      bool
	WarrantyMonths string
	Description    string
	ImageURL       string
}

// NewProductForm returns a blank form pre-filled with the category defaults.
func NewProductForm(category string) ProductForm {
	d := catalog.DefaultsFor(category)
	f := ProductForm{
		Model:          d.Model,
		Type:           d.Type,
		Storage:        d.Storage,
		Condition:      d.Condition,
		Available:      true,
		WarrantyMonths: strconv.Itoa(d.Warranty),
	}
	if catalog.TracksBattery(category) {
		f.BatteryHealth = strconv.Itoa(d.Battery)
	}
	return f
}

func FormFromProduct(p domain.Product) ProductForm {
	f := ProductForm{
		ID:             p.ID,
		Name:           p.Name,
		Model:          p.Model,
		Type:           p.Type,
		Storage:        p.Storage,
		Color:          p.Color,
		Condition:      p.Condition,
		PriceARS:       pricing.Display(strconv.FormatFloat(p.PriceARS, 'f', 0, 64)),
		PriceUSD:       pricing.Display(strconv.FormatFloat(p.PriceUSD, 'f', 0, 64)),
		ScreenSize:     p.ScreenSize,
		Chip:           p.Chip,
		Camera:         p.Camera,
		Features:       strings.Join(p.Features, "\n"),
		Available:      p.Available,
		WarrantyMonths: strconv.Itoa(p.WarrantyMonths),
		Description:    p.Description,
		ImageURL:       p.ImageURL,
	}
	if p.BatteryHealth != nil {
		f.BatteryHealth = strconv.Itoa(*p.BatteryHealth)
	}
	return f
}

// ToProduct parses the form into a product of the given category. rate (ARS
// per USD) fills in a missing price. Failures wrap ErrInvalidProduct.
func (f ProductForm) ToProduct(category string, rate float64) (domain.Product, error) {
	p := domain.Product{
		ID:          f.ID,
		Category:    category,
		Model:       strings.TrimSpace(f.Model),
		Type:        strings.TrimSpace(f.Type),
		Storage:     strings.TrimSpace(f.Storage),
		Color:       strings.TrimSpace(f.Color),
		Condition:   strings.TrimSpace(f.Condition),
		ScreenSize:  strings.TrimSpace(f.ScreenSize),
		Chip:        strings.TrimSpace(f.Chip),
		Camera:      strings.TrimSpace(f.Camera),
		Features:    splitFeatures(f.Features),
		Available:   f.Available,
		Description: strings.TrimSpace(f.Description),
		ImageURL:    strings.TrimSpace(f.ImageURL),
	}
	p.Name = strings.TrimSpace(f.Name)

	if catalog.TracksBattery(category) && strings.TrimSpace(f.BatteryHealth) != "" {
		n, ok := validate.BatteryHealth(f.BatteryHealth)
		if !ok {
			return p, fmt.Errorf("battery health must be between 0 and 100: %w", ErrInvalidProduct)
		}
		p.BatteryHealth = &n
	}

	if w := strings.TrimSpace(f.WarrantyMonths); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			return p, fmt.Errorf("warranty must be a whole number of months: %w", ErrInvalidProduct)
		}
		p.WarrantyMonths = n
	}

	p.PriceARS, p.PriceUSD = pricing.Complete(pricing.Parse(f.PriceARS), pricing.Parse(f.PriceUSD), rate)
	return p, ValidateProduct(p)
}

// ValidateProduct checks a product regardless of where it came from (form or JSON).
func ValidateProduct(p domain.Product) error {
	if _, ok := validate.Name(p.Name); !ok {
		return fmt.Errorf("name is required: %w", ErrInvalidProduct)
	}
	if !catalog.ValidCategory(p.Category) {
		return fmt.Errorf("unknown category %q: %w", p.Category, ErrInvalidProduct)
	}
	if !catalog.ValidCondition(p.Condition) {
		return fmt.Errorf("unknown condition %q: %w", p.Condition, ErrInvalidProduct)
	}
	if p.BatteryHealth != nil {
		if !catalog.TracksBattery(p.Category) {
			return fmt.Errorf("accessories carry no battery reading: %w", ErrInvalidProduct)
		}
		if *p.BatteryHealth < 0 || *p.BatteryHealth > 100 {
			return fmt.Errorf("battery health must be between 0 and 100: %w", ErrInvalidProduct)
		}
	}
	if !(p.PriceARS >= 0) || !(p.PriceUSD >= 0) || math.IsInf(p.PriceARS, 0) || math.IsInf(p.PriceUSD, 0) {
		return fmt.Errorf("prices must be non-negative numbers: %w", ErrInvalidProduct)
	}
	if p.WarrantyMonths < 0 {
		return fmt.Errorf("warranty cannot be negative: %w", ErrInvalidProduct)
	}
	if _, ok := validate.ImageURL(p.ImageURL); !ok {
		return fmt.Errorf("image url must be http(s) or site relative: %w", ErrInvalidProduct)
	}
	return nil
}

func splitFeatures(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// FormState is where an admin product form is in its lifecycle.
type FormState int

const (
	Idle FormState = iota
	Editing
	Submitting
)

func (s FormState) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	}
	return "idle"
}

// Editor drives one admin form: Idle -> Editing -> Submitting -> Idle on
// success, or back to Editing with Err set and the values kept.
type Editor struct {
	Category string
	State    FormState
	Form     ProductForm
	Err      error
}

func NewEditor(category string) *Editor {
	return &Editor{Category: category, State: Idle}
}

// Open starts editing p, or a new product when p is nil.
func (e *Editor) Open(p *domain.Product) {
	if p == nil {
		e.Form = NewProductForm(e.Category)
	} else {
		e.Form = FormFromProduct(*p)
	}
	e.Err = nil
	e.State = Editing
}

// Close abandons the form.
func (e *Editor) Close() {
	e.Form = ProductForm{}
	e.Err = nil
	e.State = Idle
}

var errNotEditing = errors.New("form is not open")

// Submit hands the form to save. It is rejected unless the editor is Editing.
func (e *Editor) Submit(save func(ProductForm) error) error {
	if e.State != Editing {
		return errNotEditing
	}
	e.State = Submitting
	if err := save(e.Form); err != nil {
		e.Err = err
		e.State = Editing
		return err
	}
	e.Close()
	return nil
}

// AdminProductService is the write side of the catalog.
type AdminProductService struct {
	Prods *repos.ProductRepo
	Rates *RateService
}

func NewAdminProductService(prods *repos.ProductRepo, rates *RateService) *AdminProductService {
	return &AdminProductService{Prods: prods, Rates: rates}
}

// arsRate is the current ARS per USD rate, 0 when it cannot be read.
func (s *AdminProductService) arsRate() float64 {
	r, err := s.Rates.Current()
	if err != nil {
		return 0
	}
	return r.ARS
}

// SaveForm creates (empty ID) or updates the product described by f.
func (s *AdminProductService) SaveForm(category string, f ProductForm) (domain.Product, error) {
	p, err := f.ToProduct(category, s.arsRate())
	if err != nil {
		return p, err
	}
	if p.ID == "" {
		return p, s.Create(&p)
	}
	return p, s.Update(&p)
}

func (s *AdminProductService) Create(p *domain.Product) error {
	p.PriceARS, p.PriceUSD = pricing.Complete(p.PriceARS, p.PriceUSD, s.arsRate())
	if err := ValidateProduct(*p); err != nil {
		return err
	}
	return s.Prods.Create(p)
}

func (s *AdminProductService) Update(p *domain.Product) error {
	p.PriceARS, p.PriceUSD = pricing.Complete(p.PriceARS, p.PriceUSD, s.arsRate())
	if err := ValidateProduct(*p); err != nil {
		return err
	}
	err := s.Prods.Update(p)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
	}
	return err
}

func (s *AdminProductService) Delete(id string) error {
	err := s.Prods.Delete(id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return err
}
