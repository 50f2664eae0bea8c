package domain

import "time"

// ServiceCatalog is the top of the self-service hierarchy: a catalog groups
// the items a department offers to portal customers.
type ServiceCatalog struct {
	ID           string
	DepartmentID string
	Name         string
	Description  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CatalogItem is an orderable service. SLAMinutes per priority feed the SLA
// calculator when a ticket is raised against the item.
type CatalogItem struct {
	ID          string
	CatalogID   string
	UnitID      *string
	Name        string
	Description string
	SLAMinutes  map[TicketPriority]int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemTemplate is the form presented to a customer ordering an item.
type ItemTemplate struct {
	ID        string
	ItemID    string
	Name      string
	IsActive  bool
	Fields    []TemplateField
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TemplateFieldType enumerates supported form field kinds.
type TemplateFieldType string

const (
	FieldTypeText     TemplateFieldType = "TEXT"
	FieldTypeTextarea TemplateFieldType = "TEXTAREA"
	FieldTypeNumber   TemplateFieldType = "NUMBER"
	FieldTypeDate     TemplateFieldType = "DATE"
	FieldTypeSelect   TemplateFieldType = "SELECT"
	FieldTypeCheckbox TemplateFieldType = "CHECKBOX"
)

// TemplateField is one input on a template form.
type TemplateField struct {
	ID         string
	TemplateID string
	Label      string
	FieldType  TemplateFieldType
	Required   bool
	Options    []string
	SortOrder  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
