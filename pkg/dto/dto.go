// Package dto holds the JSON shapes the API returns. Money fields go
// out twice: the integer amount in cents and a formatted decimal
// string, so clients never do float math on prices.
package dto

import (
	"time"

	"github.com/sinahmd/ecommerce/internal/modules/blog"
	"github.com/sinahmd/ecommerce/internal/modules/catalog"
	"github.com/sinahmd/ecommerce/internal/modules/orders"
	"github.com/sinahmd/ecommerce/internal/modules/users"
	"github.com/sinahmd/ecommerce/internal/shared/money"
)

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

func FromCategory(c catalog.Category) Category {
	return Category{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}

func FromCategories(cs []catalog.Category) []Category {
	out := make([]Category, len(cs))
	for i, c := range cs {
		out[i] = FromCategory(c)
	}
	return out
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	PriceCents  int       `json:"price_cents"`
	Price       string    `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	Stock       int       `json:"stock"`
	Available   bool      `json:"available"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromProduct(p catalog.Product) Product {
	out := Product{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Price:       money.Format(p.PriceCents),
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
	}
	if p.Category != nil {
		c := FromCategory(*p.Category)
		out.Category = &c
	}
	return out
}

func FromProducts(ps []catalog.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = FromProduct(p)
	}
	return out
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromUser(u users.User) User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type Address struct {
	ID          string `json:"id"`
	AddressType string `json:"address_type"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
	Country     string `json:"country"`
	IsDefault   bool   `json:"is_default"`
}

func FromAddress(a users.Address) Address {
	return Address{
		ID:          a.ID,
		AddressType: a.AddressType,
		Street:      a.Street,
		City:        a.City,
		State:       a.State,
		ZipCode:     a.ZipCode,
		Country:     a.Country,
		IsDefault:   a.IsDefault,
	}
}

func FromAddresses(as []users.Address) []Address {
	out := make([]Address, len(as))
	for i, a := range as {
		out[i] = FromAddress(a)
	}
	return out
}

type OrderItem struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	UnitPriceCents int    `json:"unit_price_cents"`
	UnitPrice      string `json:"unit_price"`
	Quantity       int    `json:"quantity"`
	LineTotalCents int    `json:"line_total_cents"`
	LineTotal      string `json:"line_total"`
}

func FromOrderItem(it orders.OrderItem) OrderItem {
	return OrderItem{
		ProductID:      it.ProductID,
		ProductName:    it.ProductName,
		UnitPriceCents: it.UnitPriceCents,
		UnitPrice:      money.Format(it.UnitPriceCents),
		Quantity:       it.Quantity,
		LineTotalCents: it.LineTotalCents(),
		LineTotal:      money.Format(it.LineTotalCents()),
	}
}

type Order struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"payment_status"`
	FirstName     string      `json:"first_name"`
	LastName      string      `json:"last_name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	City          string      `json:"city"`
	State         string      `json:"state"`
	Country       string      `json:"country"`
	ZipCode       string      `json:"zip_code"`
	TotalCents    int         `json:"total_cents"`
	Total         string      `json:"total"`
	ShippingCents int         `json:"shipping_cents"`
	Shipping      string      `json:"shipping"`
	RefID         string      `json:"ref_id,omitempty"`
	Items         []OrderItem `json:"items,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

func FromOrder(o orders.Order) Order {
	out := Order{
		ID:            o.ID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		FirstName:     o.FirstName,
		LastName:      o.LastName,
		Email:         o.Email,
		Phone:         o.Phone,
		Address:       o.Address,
		City:          o.City,
		State:         o.State,
		Country:       o.Country,
		ZipCode:       o.ZipCode,
		TotalCents:    o.TotalCents,
		Total:         money.Format(o.TotalCents),
		ShippingCents: o.ShippingCents,
		Shipping:      money.Format(o.ShippingCents),
		CreatedAt:     o.CreatedAt,
	}
	if o.RefID != nil {
		out.RefID = *o.RefID
	}
	return out
}

func FromOrderWithItems(o orders.Order, items []orders.OrderItem) Order {
	out := FromOrder(o)
	out.Items = make([]OrderItem, len(items))
	for i, it := range items {
		out.Items[i] = FromOrderItem(it)
	}
	return out
}

func FromOrders(os []orders.Order) []Order {
	out := make([]Order, len(os))
	for i, o := range os {
		out[i] = FromOrder(o)
	}
	return out
}

type Transaction struct {
	ID          string    `json:"id"`
	AmountCents int       `json:"amount_cents"`
	Amount      string    `json:"amount"`
	Authority   string    `json:"authority,omitempty"`
	RefID       string    `json:"ref_id,omitempty"`
	CardPan     string    `json:"card_pan,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromTransaction(t orders.Transaction) Transaction {
	out := Transaction{
		ID:          t.ID,
		AmountCents: t.AmountCents,
		Amount:      money.Format(t.AmountCents),
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
	if t.Authority != nil {
		out.Authority = *t.Authority
	}
	if t.RefID != nil {
		out.RefID = *t.RefID
	}
	if t.CardPan != nil {
		out.CardPan = *t.CardPan
	}
	return out
}

func FromTransactions(ts []orders.Transaction) []Transaction {
	out := make([]Transaction, len(ts))
	for i, t := range ts {
		out[i] = FromTransaction(t)
	}
	return out
}

type OrderEvent struct {
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromOrderEvents(evs []orders.OrderEvent) []OrderEvent {
	out := make([]OrderEvent, len(evs))
	for i, ev := range evs {
		out[i] = OrderEvent{
			Action:     ev.Action,
			FromStatus: ev.FromStatus,
			ToStatus:   ev.ToStatus,
			CreatedAt:  ev.CreatedAt,
		}
		if ev.Note != nil {
			out[i].Note = *ev.Note
		}
	}
	return out
}

type Tag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Tags        []Tag      `json:"tags"`
}

func FromPost(p blog.Post, includeBody bool) Post {
	out := Post{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Published:   p.Published,
		PublishedAt: p.PublishedAt,
		Tags:        make([]Tag, len(p.Tags)),
	}
	if includeBody {
		out.Body = p.Body
	}
	if p.CoverImage != nil {
		out.CoverImage = *p.CoverImage
	}
	for i, t := range p.Tags {
		out.Tags[i] = Tag{Name: t.Name, Slug: t.Slug}
	}
	return out
}

func FromPosts(ps []blog.Post) []Post {
	out := make([]Post, len(ps))
	for i, p := range ps {
		out[i] = FromPost(p, false)
	}
	return out
}
