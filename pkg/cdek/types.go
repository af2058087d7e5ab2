package cdek

// DeliveryPointType selects the kind of pickup point to query.
type DeliveryPointType string

const (
	// DeliveryPointPVZ - CDEK warehouses.
	DeliveryPointPVZ DeliveryPointType = "PVZ"
	// DeliveryPointPostomat - partner-operated parcel lockers.
	DeliveryPointPostomat DeliveryPointType = "POSTOMAT"
	// DeliveryPointAll - both kinds.
	DeliveryPointAll DeliveryPointType = "ALL"
)

// OrderType is the contract type of a registered order.
type OrderType int

const (
	// OrderTypeShop - online store (requires a store contract).
	OrderTypeShop OrderType = 1
	// OrderTypeDelivery - plain delivery (any contract).
	OrderTypeDelivery OrderType = 2
)

// Tariff is a provider-defined delivery service class.
type Tariff int

const (
	TariffStockStock Tariff = 136 // warehouse to warehouse
	TariffStockHome  Tariff = 137 // warehouse to door
	TariffHomeStock  Tariff = 138 // door to warehouse
	TariffHomeHome   Tariff = 139 // door to door
)

// PrintStatus is the lifecycle state of a print-document or barcode job.
type PrintStatus string

const (
	PrintAccepted   PrintStatus = "ACCEPTED"
	PrintProcessing PrintStatus = "PROCESSING"
	PrintReady      PrintStatus = "READY"
	PrintRemoved    PrintStatus = "REMOVED"
	PrintInvalid    PrintStatus = "INVALID"
)

// BarcodeFormat is the paper format for generated barcodes.
type BarcodeFormat string

const (
	BarcodeA4 BarcodeFormat = "A4"
	BarcodeA5 BarcodeFormat = "A5"
	BarcodeA6 BarcodeFormat = "A6"
)

// Money is a monetary amount with optional VAT breakdown.
type Money struct {
	Value   float64  `json:"value"`
	VATSum  *float64 `json:"vat_sum,omitempty"`
	VATRate *int     `json:"vat_rate,omitempty"` // nil means no VAT
}

// Phone is a contact phone number in international format.
type Phone struct {
	Number     string `json:"number"`
	Additional string `json:"additional,omitempty"`
}

// Sender describes the shipment sender.
type Sender struct {
	Company string  `json:"company,omitempty"`
	Name    string  `json:"name,omitempty"`
	Email   string  `json:"email,omitempty"`
	Phones  []Phone `json:"phones,omitempty"`
}

// Seller describes the real seller behind a marketplace shipment.
type Seller struct {
	Name          string `json:"name,omitempty"`
	INN           string `json:"inn,omitempty"`
	Phone         string `json:"phone,omitempty"`
	OwnershipForm *int   `json:"ownership_form,omitempty"`
}

// Recipient describes the shipment recipient.
type Recipient struct {
	Company              string  `json:"company,omitempty"`
	Name                 string  `json:"name,omitempty"`
	PassportSeries       string  `json:"passport_series,omitempty"`
	PassportNumber       string  `json:"passport_number,omitempty"`
	PassportDateOfIssue  *Date   `json:"passport_date_of_issue,omitempty"`
	PassportOrganization string  `json:"passport_organization,omitempty"`
	TIN                  string  `json:"tin,omitempty"`
	PassportDateOfBirth  *Date   `json:"passport_date_of_birth,omitempty"`
	Email                string  `json:"email,omitempty"`
	Phones               []Phone `json:"phones,omitempty"`
}

// Location is a CDEK location descriptor used for both ends of a shipment.
type Location struct {
	Code        *int     `json:"code,omitempty"` // CDEK location code
	FiasGUID    string   `json:"fias_guid,omitempty"`
	PostalCode  string   `json:"postal_code,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	CountryCode string   `json:"country_code,omitempty"` // ISO 3166-1 alpha-2
	Region      string   `json:"region,omitempty"`
	RegionCode  *int     `json:"region_code,omitempty"`
	SubRegion   string   `json:"sub_region,omitempty"`
	City        string   `json:"city,omitempty"`
	KladrCode   string   `json:"kladr_code,omitempty"`
	Address     string   `json:"address,omitempty"`
}

// Service is an add-on service attached to an order or calculation.
type Service struct {
	Code      string   `json:"code"`
	Parameter *float64 `json:"parameter,omitempty"`
}

// Item is a single goods position inside a package.
type Item struct {
	Name        string   `json:"name,omitempty"`
	WareKey     string   `json:"ware_key,omitempty"` // SKU
	Marking     string   `json:"marking,omitempty"`
	Payment     *Money   `json:"payment,omitempty"` // cash on delivery, zero when prepaid
	Cost        *float64 `json:"cost,omitempty"`    // declared value per unit
	Weight      *int     `json:"weight,omitempty"`  // grams per unit
	WeightGross *int     `json:"weight_gross,omitempty"`
	Amount      *int     `json:"amount,omitempty"`
	NameI18N    string   `json:"name_i18n,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	CountryCode string   `json:"country_code,omitempty"`
	Material    *int     `json:"material,omitempty"`
	WifiGSM     *bool    `json:"wifi_gsm,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Package is one physical parcel of an order.
type Package struct {
	Number  string `json:"number,omitempty"` // unique within the order
	Weight  *int   `json:"weight,omitempty"` // grams
	Length  *int   `json:"length,omitempty"` // cm
	Width   *int   `json:"width,omitempty"`
	Height  *int   `json:"height,omitempty"`
	Comment string `json:"comment,omitempty"`
	Items   []Item `json:"items,omitempty"`
}

// OrderRequest is the composite order-registration request.
type OrderRequest struct {
	Type       OrderType `json:"type"`
	Number     string    `json:"number,omitempty"` // client-side order number
	TariffCode Tariff    `json:"tariff_code"`
	Comment    string    `json:"comment,omitempty"`

	// ShipmentPoint and DeliveryPoint are CDEK pickup point codes for
	// drop-off and delivery respectively.
	ShipmentPoint string `json:"shipment_point,omitempty"`
	DeliveryPoint string `json:"delivery_point,omitempty"`

	// Online-store only fields.
	DateInvoice           *Date  `json:"date_invoice,omitempty"`
	ShipperName           string `json:"shipper_name,omitempty"`
	ShipperAddress        string `json:"shipper_address,omitempty"`
	DeliveryRecipientCost *Money `json:"delivery_recipient_cost,omitempty"`

	Sender       *Sender    `json:"sender,omitempty"`
	Seller       *Seller    `json:"seller,omitempty"`
	Recipient    *Recipient `json:"recipient,omitempty"`
	FromLocation *Location  `json:"from_location,omitempty"`
	ToLocation   *Location  `json:"to_location,omitempty"`
	Services     []Service  `json:"services,omitempty"`
	Packages     []Package  `json:"packages,omitempty"`
}

// NewOrderRequest returns an order request with the default type and tariff.
func NewOrderRequest() *OrderRequest {
	return &OrderRequest{
		Type:       OrderTypeShop,
		TariffCode: TariffStockStock,
	}
}
