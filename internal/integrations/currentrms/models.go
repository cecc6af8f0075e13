package currentrms

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Meta блок пагинации ответа Current RMS
type Meta struct {
	TotalRowCount int `json:"total_row_count"`
	RowCount      int `json:"row_count"`
	Page          int `json:"page"`
	PerPage       int `json:"per_page"`
}

// HasMore возвращает true, если есть следующая страница
func (m Meta) HasMore() bool {
	return m.TotalRowCount > m.PerPage*m.Page
}

// Named вложенный объект с именем (owner, member, venue, product_group)
type Named struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Opportunity заявка из Current RMS
type Opportunity struct {
	ID              int64                  `json:"id"`
	Number          string                 `json:"number"`
	Subject         string                 `json:"subject"`
	State           int                    `json:"state"`
	Status          int                    `json:"status"`
	StartsAt        *time.Time             `json:"starts_at"`
	EndsAt          *time.Time             `json:"ends_at"`
	LoadStartsAt    *time.Time             `json:"load_starts_at"`
	DeliverStartsAt *time.Time             `json:"deliver_starts_at"`
	UnloadStartsAt  *time.Time             `json:"unload_starts_at"`
	CollectStartsAt *time.Time             `json:"collect_starts_at"`
	WeightTotal     Decimal                `json:"weight_total"`
	TagList         []string               `json:"tag_list"`
	CustomFields    map[string]interface{} `json:"custom_fields"`
	Owner           *Named                 `json:"owner"`
	Member          *Named                 `json:"member"`
	Venue           *Named                 `json:"venue"`
}

// CustomFieldYes возвращает true, если кастомное поле равно "Yes"
func (o *Opportunity) CustomFieldYes(name string) bool {
	v, ok := o.CustomFields[name].(string)
	return ok && strings.EqualFold(strings.TrimSpace(v), "yes")
}

// OpportunityItem позиция заявки
type OpportunityItem struct {
	ID                      int64   `json:"id"`
	OpportunityID           int64   `json:"opportunity_id"`
	ItemID                  int64   `json:"item_id"`
	ItemType                string  `json:"item_type"`
	OpportunityItemType     int     `json:"opportunity_item_type"`
	OpportunityItemTypeName string  `json:"opportunity_item_type_name"`
	Name                    string  `json:"name"`
	Quantity                Decimal `json:"quantity"`
	Description             string  `json:"description"`
}

// Product товар каталога
type Product struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Active       bool   `json:"active"`
	ProductGroup *Named `json:"product_group"`
}

// Member пользователь/контакт Current RMS
type Member struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Active         bool   `json:"active"`
	MembershipType string `json:"membership_type"`
}

type opportunitiesResponse struct {
	Opportunities []Opportunity `json:"opportunities"`
	Meta          Meta          `json:"meta"`
}

type opportunityItemsResponse struct {
	OpportunityItems []OpportunityItem `json:"opportunity_items"`
	Meta             Meta              `json:"meta"`
}

type productsResponse struct {
	Products []Product `json:"products"`
	Meta     Meta      `json:"meta"`
}

type membersResponse struct {
	Members []Member `json:"members"`
	Meta    Meta     `json:"meta"`
}

// Decimal число, которое Current RMS отдает строкой ("1234.50") или числом.
// Valid == false, если значение не удалось разобрать.
type Decimal struct {
	Value float64
	Valid bool
	Raw   string
}

// UnmarshalJSON разбирает строку или число, не возвращая ошибку на мусоре
func (d *Decimal) UnmarshalJSON(data []byte) error {
	*d = Decimal{}
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}
	d.Raw = s

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	d.Value = v
	d.Valid = true
	return nil
}
