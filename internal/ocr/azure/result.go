package azure

// Raw JSON shapes of the Document Intelligence analyze result. Only the
// parts the field extractor reads are modeled; everything else survives in
// the retained raw payload.

// AnalyzeResult is the terminal analysis section of an operation response.
type AnalyzeResult struct {
	APIVersion string     `json:"apiVersion"`
	ModelID    string     `json:"modelId"`
	Content    string     `json:"content"`
	Documents  []Document `json:"documents"`
}

// Document is a single recognized document within the analysis result.
type Document struct {
	DocType    string           `json:"docType"`
	Fields     map[string]Field `json:"fields"`
	Confidence float64          `json:"confidence"`
}

// Field is one named value in a document. Its populated value slot depends
// on Type ("string", "date", "number", "currency", "address", "array",
// "object").
type Field struct {
	Type            string           `json:"type"`
	Content         string           `json:"content,omitempty"`
	ValueString     string           `json:"valueString,omitempty"`
	ValueDate       string           `json:"valueDate,omitempty"`
	ValueNumber     *float64         `json:"valueNumber,omitempty"`
	ValueCurrency   *CurrencyValue   `json:"valueCurrency,omitempty"`
	ValueAddress    *AddressValue    `json:"valueAddress,omitempty"`
	ValueArray      []Field          `json:"valueArray,omitempty"`
	ValueObject     map[string]Field `json:"valueObject,omitempty"`
	BoundingRegions []BoundingRegion `json:"boundingRegions,omitempty"`
	Confidence      float64          `json:"confidence,omitempty"`
}

// CurrencyValue is a parsed currency amount.
type CurrencyValue struct {
	Amount         *float64 `json:"amount"`
	CurrencySymbol string   `json:"currencySymbol,omitempty"`
	CurrencyCode   string   `json:"currencyCode,omitempty"`
}

// AddressValue is a parsed postal address.
type AddressValue struct {
	HouseNumber   string `json:"houseNumber,omitempty"`
	Road          string `json:"road,omitempty"`
	StreetAddress string `json:"streetAddress,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
}

// BoundingRegion locates recognized content on a page. PageNumber is 1-based.
type BoundingRegion struct {
	PageNumber int       `json:"pageNumber"`
	Polygon    []float64 `json:"polygon,omitempty"`
}
