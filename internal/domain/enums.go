package domain

// OCRProvider selects which document-analysis backend produced a result
// tree. Raw trees are provider-specific and must not leak past the field
// extractor for their provider.
type OCRProvider string

const (
	ProviderAzure   OCRProvider = "azure"
	ProviderMistral OCRProvider = "mistral"
)

// ValidOCRProviders lists the providers an analyzer can be built for.
var ValidOCRProviders = map[OCRProvider]bool{
	ProviderAzure:   true,
	ProviderMistral: true,
}

// ListPermission is a user's role on a shared shopping list.
type ListPermission string

const (
	ListPermissionOwner  ListPermission = "owner"
	ListPermissionEditor ListPermission = "editor"
)

// ValidListPermissions lists the grantable shopping list roles.
var ValidListPermissions = map[ListPermission]bool{
	ListPermissionOwner:  true,
	ListPermissionEditor: true,
}
