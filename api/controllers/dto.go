package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
)

// Wire DTOs keep the persistence models off the public surface; in
// particular the registration's password hash never leaves the server.

type registrationDTO struct {
	ID              uuid.UUID `json:"id"`
	FirmName        string    `json:"firmName"`
	ShopName        string    `json:"shopName"`
	State           string    `json:"state"`
	City            string    `json:"city"`
	Zip             string    `json:"zip"`
	OTPMobile       string    `json:"otpMobile"`
	Whatsapp        string    `json:"whatsapp,omitempty"`
	VisitingCardURL string    `json:"visitingCardUrl,omitempty"`
	IsApproved      *bool     `json:"isApproved"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toRegistrationDTO(reg *models.Registration) registrationDTO {
	return registrationDTO{
		ID:              reg.ID,
		FirmName:        reg.FirmName,
		ShopName:        reg.ShopName,
		State:           reg.State,
		City:            reg.City,
		Zip:             reg.Zip,
		OTPMobile:       reg.OTPMobile,
		Whatsapp:        reg.Whatsapp,
		VisitingCardURL: reg.VisitingCardURL,
		IsApproved:      reg.IsApproved,
		CreatedAt:       reg.CreatedAt,
	}
}

func toRegistrationDTOs(regs []models.Registration) []registrationDTO {
	out := make([]registrationDTO, 0, len(regs))
	for i := range regs {
		out = append(out, toRegistrationDTO(&regs[i]))
	}
	return out
}

type categoryDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"displayOrder"`
}

func toCategoryDTO(c *models.Category) categoryDTO {
	return categoryDTO{ID: c.ID, Name: c.Name, DisplayOrder: c.DisplayOrder}
}

func toCategoryDTOs(cats []models.Category) []categoryDTO {
	out := make([]categoryDTO, 0, len(cats))
	for i := range cats {
		out = append(out, toCategoryDTO(&cats[i]))
	}
	return out
}

type productDTO struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	SKU          string            `json:"sku"`
	Slug         string            `json:"slug"`
	Price        float64           `json:"price"`
	MRP          float64           `json:"mrp"`
	Stock        int               `json:"stock"`
	Unit         string            `json:"unit"`
	Description  string            `json:"description,omitempty"`
	Tagline      string            `json:"tagline,omitempty"`
	PackSize     string            `json:"packSize,omitempty"`
	Images       []string          `json:"images"`
	CategoryID   *uuid.UUID        `json:"categoryId"`
	Category     *categoryDTO      `json:"category,omitempty"`
	BulkPricing  []models.BulkTier `json:"bulkPricing"`
	TaxFields    []string          `json:"taxFields,omitempty"`
	DisplayOrder int               `json:"displayOrder"`
	CreatedAt    time.Time         `json:"createdAt"`
}

func toProductDTO(p *models.Product) productDTO {
	dto := productDTO{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Slug:         p.Slug,
		Price:        p.Price,
		MRP:          p.MRP,
		Stock:        p.Stock,
		Unit:         p.Unit,
		Description:  p.Description,
		Tagline:      p.Tagline,
		PackSize:     p.PackSize,
		Images:       p.Images,
		CategoryID:   p.CategoryID,
		BulkPricing:  p.BulkPricing,
		TaxFields:    p.TaxFields,
		DisplayOrder: p.DisplayOrder,
		CreatedAt:    p.CreatedAt,
	}
	if p.Category != nil {
		cat := toCategoryDTO(p.Category)
		dto.Category = &cat
	}
	return dto
}

func toProductDTOs(products []models.Product) []productDTO {
	out := make([]productDTO, 0, len(products))
	for i := range products {
		out = append(out, toProductDTO(&products[i]))
	}
	return out
}

type bannerDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title,omitempty"`
	ImageURL     string    `json:"imageUrl"`
	Link         string    `json:"link,omitempty"`
	DisplayOrder int       `json:"displayOrder"`
	IsActive     bool      `json:"isActive"`
}

func toBannerDTO(b *models.Banner) bannerDTO {
	return bannerDTO{
		ID:           b.ID,
		Title:        b.Title,
		ImageURL:     b.ImageURL,
		Link:         b.Link,
		DisplayOrder: b.DisplayOrder,
		IsActive:     b.IsActive,
	}
}

func toBannerDTOs(banners []models.Banner) []bannerDTO {
	out := make([]bannerDTO, 0, len(banners))
	for i := range banners {
		out = append(out, toBannerDTO(&banners[i]))
	}
	return out
}

type addressDTO struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	Line1     string    `json:"line1"`
	Line2     string    `json:"line2,omitempty"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Label     string    `json:"label"`
	IsDefault bool      `json:"isDefault"`
}

func toAddressDTO(a *models.Address) addressDTO {
	return addressDTO{
		ID:        a.ID,
		FullName:  a.FullName,
		Phone:     a.Phone,
		Line1:     a.Line1,
		Line2:     a.Line2,
		City:      a.City,
		State:     a.State,
		Zip:       a.Zip,
		Label:     string(a.Label),
		IsDefault: a.IsDefault,
	}
}

func toAddressDTOs(addresses []models.Address) []addressDTO {
	out := make([]addressDTO, 0, len(addresses))
	for i := range addresses {
		out = append(out, toAddressDTO(&addresses[i]))
	}
	return out
}

type orderItemDTO struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      *uuid.UUID `json:"productId"`
	Name           string     `json:"name"`
	Image          string     `json:"image,omitempty"`
	Qty            int        `json:"qty"`
	Price          float64    `json:"price"`
	PiecesPerInner int        `json:"piecesPerInner"`
	Inners         int        `json:"inners"`
}

type orderDTO struct {
	ID              uuid.UUID               `json:"id"`
	OrderNumber     string                  `json:"orderNumber"`
	CustomerID      uuid.UUID               `json:"customerId"`
	Customer        *registrationDTO        `json:"customer,omitempty"`
	Items           []orderItemDTO          `json:"items"`
	ItemsPrice      float64                 `json:"itemsPrice"`
	ShippingPrice   float64                 `json:"shippingPrice"`
	Total           float64                 `json:"total"`
	PaymentMode     string                  `json:"paymentMode"`
	AdvancePaid     float64                 `json:"advancePaid"`
	RemainingAmount float64                 `json:"remainingAmount"`
	Status          string                  `json:"status"`
	Shipping        models.ShippingSnapshot `json:"shippingAddress"`
	IsShipped       bool                    `json:"isShipped"`
	CourierName     string                  `json:"courierName,omitempty"`
	TrackingID      string                  `json:"trackingId,omitempty"`
	IsDelivered     bool                    `json:"isDelivered"`
	DeliveredAt     *time.Time              `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
}

func toOrderDTO(o *models.Order) orderDTO {
	items := make([]orderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			Image:          item.Image,
			Qty:            item.Qty,
			Price:          item.Price,
			PiecesPerInner: item.PiecesPerInner,
			Inners:         item.Inners,
		})
	}

	dto := orderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Items:           items,
		ItemsPrice:      o.ItemsPrice,
		ShippingPrice:   o.ShippingPrice,
		Total:           o.Total,
		PaymentMode:     o.PaymentMode.String(),
		AdvancePaid:     o.AdvancePaid,
		RemainingAmount: o.RemainingAmount,
		Status:          o.Status.String(),
		Shipping:        o.Shipping,
		IsShipped:       o.IsShipped,
		CourierName:     o.CourierName,
		TrackingID:      o.TrackingID,
		IsDelivered:     o.IsDelivered,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
	}
	if o.Customer != nil {
		customer := toRegistrationDTO(o.Customer)
		dto.Customer = &customer
	}
	return dto
}

func toOrderDTOs(orders []models.Order) []orderDTO {
	out := make([]orderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderDTO(&orders[i]))
	}
	return out
}

type shippingSettingDTO struct {
	ShippingCharge        float64 `json:"shippingCharge"`
	FreeShippingThreshold float64 `json:"freeShippingThreshold"`
}

func toShippingSettingDTO(s *models.ShippingSetting) shippingSettingDTO {
	return shippingSettingDTO{
		ShippingCharge:        s.ShippingCharge,
		FreeShippingThreshold: s.FreeShippingThreshold,
	}
}
