package uc

// CatalogInfo describes a catalog.
type CatalogInfo struct {
	ID          string            `json:"id,omitempty"           yaml:"id,omitempty"`
	Name        string            `json:"name"                   yaml:"name"`
	Comment     string            `json:"comment,omitempty"      yaml:"comment,omitempty"`
	CatalogType string            `json:"catalog_type,omitempty" yaml:"catalog_type,omitempty"`
	StorageRoot string            `json:"storage_root,omitempty" yaml:"storage_root,omitempty"`
	Owner       string            `json:"owner,omitempty"        yaml:"owner,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"   yaml:"properties,omitempty"`
	CreatedAt   int64             `json:"created_at,omitempty"   yaml:"created_at,omitempty"`
	UpdatedAt   int64             `json:"updated_at,omitempty"   yaml:"updated_at,omitempty"`
}

// CreateCatalogRequest is the body of a create catalog call.
type CreateCatalogRequest struct {
	Name        string            `json:"name"`
	Comment     string            `json:"comment,omitempty"`
	StorageRoot string            `json:"storage_root,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
}

// UpdateCatalogRequest is the body of an update catalog call. Nil fields are
// left unchanged.
type UpdateCatalogRequest struct {
	NewName    *string           `json:"new_name,omitempty"`
	Comment    *string           `json:"comment,omitempty"`
	Owner      *string           `json:"owner,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// SchemaInfo describes a schema.
type SchemaInfo struct {
	SchemaID    string            `json:"schema_id,omitempty"  yaml:"schema_id,omitempty"`
	Name        string            `json:"name"                 yaml:"name"`
	CatalogName string            `json:"catalog_name"         yaml:"catalog_name"`
	FullName    string            `json:"full_name,omitempty"  yaml:"full_name,omitempty"`
	Comment     string            `json:"comment,omitempty"    yaml:"comment,omitempty"`
	Owner       string            `json:"owner,omitempty"      yaml:"owner,omitempty"`
	Properties  map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
	CreatedAt   int64             `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   int64             `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// CreateSchemaRequest is the body of a create schema call.
type CreateSchemaRequest struct {
	Name        string            `json:"name"`
	CatalogName string            `json:"catalog_name"`
	Comment     string            `json:"comment,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
}

// UpdateSchemaRequest is the body of an update schema call.
type UpdateSchemaRequest struct {
	NewName    *string           `json:"new_name,omitempty"`
	Comment    *string           `json:"comment,omitempty"`
	Owner      *string           `json:"owner,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// TableType classifies a table.
type TableType string

// Table types.
const (
	TableTypeManaged  TableType = "MANAGED"
	TableTypeExternal TableType = "EXTERNAL"
	TableTypeView     TableType = "VIEW"
)

// ColumnInfo describes a table column.
type ColumnInfo struct {
	Name     string `json:"name"                yaml:"name"`
	TypeText string `json:"type_text,omitempty" yaml:"type_text,omitempty"`
	TypeName string `json:"type_name,omitempty" yaml:"type_name,omitempty"`
	TypeJSON string `json:"type_json,omitempty" yaml:"type_json,omitempty"`
	Position int32  `json:"position,omitempty"  yaml:"position,omitempty"`
	Nullable bool   `json:"nullable,omitempty"  yaml:"nullable,omitempty"`
	Comment  string `json:"comment,omitempty"   yaml:"comment,omitempty"`
}

// TableInfo describes a table.
type TableInfo struct {
	TableID          string            `json:"table_id,omitempty"           yaml:"table_id,omitempty"`
	Name             string            `json:"name"                         yaml:"name"`
	CatalogName      string            `json:"catalog_name"                 yaml:"catalog_name"`
	SchemaName       string            `json:"schema_name"                  yaml:"schema_name"`
	FullName         string            `json:"full_name,omitempty"          yaml:"full_name,omitempty"`
	TableType        TableType         `json:"table_type,omitempty"         yaml:"table_type,omitempty"`
	DataSourceFormat string            `json:"data_source_format,omitempty" yaml:"data_source_format,omitempty"`
	StorageLocation  string            `json:"storage_location,omitempty"   yaml:"storage_location,omitempty"`
	Columns          []ColumnInfo      `json:"columns,omitempty"            yaml:"columns,omitempty"`
	Comment          string            `json:"comment,omitempty"            yaml:"comment,omitempty"`
	Owner            string            `json:"owner,omitempty"              yaml:"owner,omitempty"`
	Properties       map[string]string `json:"properties,omitempty"         yaml:"properties,omitempty"`
	CreatedAt        int64             `json:"created_at,omitempty"         yaml:"created_at,omitempty"`
	UpdatedAt        int64             `json:"updated_at,omitempty"         yaml:"updated_at,omitempty"`
}

// TableSummary is the short form of a table returned by summary listings.
type TableSummary struct {
	FullName  string    `json:"full_name"            yaml:"full_name"`
	TableType TableType `json:"table_type,omitempty" yaml:"table_type,omitempty"`
}

// CreateTableRequest is the body of a create table call.
type CreateTableRequest struct {
	Name             string            `json:"name"`
	CatalogName      string            `json:"catalog_name"`
	SchemaName       string            `json:"schema_name"`
	TableType        TableType         `json:"table_type,omitempty"`
	DataSourceFormat string            `json:"data_source_format,omitempty"`
	Columns          []ColumnInfo      `json:"columns,omitempty"`
	StorageLocation  string            `json:"storage_location,omitempty"`
	Comment          string            `json:"comment,omitempty"`
	Properties       map[string]string `json:"properties,omitempty"`
}

// ListTablesOptions narrows a table listing.
type ListTablesOptions struct {
	MaxResults           int
	IncludeDeltaMetadata bool
	OmitColumns          bool
	OmitProperties       bool
	OmitUsername         bool
}

// ListTableSummariesOptions narrows a table summary listing.
type ListTableSummariesOptions struct {
	SchemaNamePattern string
	TableNamePattern  string
	MaxResults        int
}

// CredentialPurpose says what a credential may be used for.
type CredentialPurpose string

// Credential purposes.
const (
	CredentialPurposeStorage CredentialPurpose = "STORAGE"
	CredentialPurposeService CredentialPurpose = "SERVICE"
)

// CredentialInfo describes a credential.
type CredentialInfo struct {
	ID        string            `json:"id,omitempty"         yaml:"id,omitempty"`
	Name      string            `json:"name"                 yaml:"name"`
	Purpose   CredentialPurpose `json:"purpose,omitempty"    yaml:"purpose,omitempty"`
	ReadOnly  bool              `json:"read_only,omitempty"  yaml:"read_only,omitempty"`
	Comment   string            `json:"comment,omitempty"    yaml:"comment,omitempty"`
	Owner     string            `json:"owner,omitempty"      yaml:"owner,omitempty"`
	FullName  string            `json:"full_name,omitempty"  yaml:"full_name,omitempty"`
	CreatedAt int64             `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt int64             `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// CreateCredentialRequest is the body of a create credential call.
type CreateCredentialRequest struct {
	Name           string            `json:"name"`
	Purpose        CredentialPurpose `json:"purpose"`
	Comment        string            `json:"comment,omitempty"`
	ReadOnly       bool              `json:"read_only,omitempty"`
	SkipValidation bool              `json:"skip_validation,omitempty"`
}

// UpdateCredentialRequest is the body of an update credential call.
type UpdateCredentialRequest struct {
	NewName  *string `json:"new_name,omitempty"`
	Comment  *string `json:"comment,omitempty"`
	Owner    *string `json:"owner,omitempty"`
	ReadOnly *bool   `json:"read_only,omitempty"`
}

// ExternalLocationInfo describes an external location.
type ExternalLocationInfo struct {
	ExternalLocationID string `json:"external_location_id,omitempty" yaml:"external_location_id,omitempty"`
	Name               string `json:"name"                           yaml:"name"`
	URL                string `json:"url"                            yaml:"url"`
	CredentialName     string `json:"credential_name"                yaml:"credential_name"`
	ReadOnly           bool   `json:"read_only,omitempty"            yaml:"read_only,omitempty"`
	Comment            string `json:"comment,omitempty"              yaml:"comment,omitempty"`
	Owner              string `json:"owner,omitempty"                yaml:"owner,omitempty"`
	CreatedAt          int64  `json:"created_at,omitempty"           yaml:"created_at,omitempty"`
	UpdatedAt          int64  `json:"updated_at,omitempty"           yaml:"updated_at,omitempty"`
}

// CreateExternalLocationRequest is the body of a create external location call.
type CreateExternalLocationRequest struct {
	Name           string `json:"name"`
	URL            string `json:"url"`
	CredentialName string `json:"credential_name"`
	ReadOnly       bool   `json:"read_only,omitempty"`
	Comment        string `json:"comment,omitempty"`
	SkipValidation bool   `json:"skip_validation,omitempty"`
}

// UpdateExternalLocationRequest is the body of an update external location call.
type UpdateExternalLocationRequest struct {
	NewName        *string `json:"new_name,omitempty"`
	URL            *string `json:"url,omitempty"`
	CredentialName *string `json:"credential_name,omitempty"`
	ReadOnly       *bool   `json:"read_only,omitempty"`
	Comment        *string `json:"comment,omitempty"`
	Owner          *string `json:"owner,omitempty"`
}

// AuthenticationType is how a recipient authenticates.
type AuthenticationType string

// Recipient authentication types.
const (
	AuthenticationTypeToken                  AuthenticationType = "TOKEN"
	AuthenticationTypeOAuthClientCredentials AuthenticationType = "OAUTH_CLIENT_CREDENTIALS"
)

// RecipientToken is an activation token issued to a recipient.
type RecipientToken struct {
	ID             string `json:"id,omitempty"              yaml:"id,omitempty"`
	ActivationURL  string `json:"activation_url,omitempty"  yaml:"activation_url,omitempty"`
	ExpirationTime int64  `json:"expiration_time,omitempty" yaml:"expiration_time,omitempty"`
	CreatedAt      int64  `json:"created_at,omitempty"      yaml:"created_at,omitempty"`
}

// RecipientInfo describes a sharing recipient.
type RecipientInfo struct {
	ID                 string             `json:"id,omitempty"         yaml:"id,omitempty"`
	Name               string             `json:"name"                 yaml:"name"`
	AuthenticationType AuthenticationType `json:"authentication_type"  yaml:"authentication_type"`
	Owner              string             `json:"owner,omitempty"      yaml:"owner,omitempty"`
	Comment            string             `json:"comment,omitempty"    yaml:"comment,omitempty"`
	Properties         map[string]string  `json:"properties,omitempty" yaml:"properties,omitempty"`
	Tokens             []RecipientToken   `json:"tokens,omitempty"     yaml:"tokens,omitempty"`
	CreatedAt          int64              `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt          int64              `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// CreateRecipientRequest is the body of a create recipient call.
type CreateRecipientRequest struct {
	Name               string             `json:"name"`
	AuthenticationType AuthenticationType `json:"authentication_type"`
	Owner              string             `json:"owner,omitempty"`
	Comment            string             `json:"comment,omitempty"`
	Properties         map[string]string  `json:"properties,omitempty"`
}

// UpdateRecipientRequest is the body of an update recipient call.
type UpdateRecipientRequest struct {
	NewName    *string           `json:"new_name,omitempty"`
	Owner      *string           `json:"owner,omitempty"`
	Comment    *string           `json:"comment,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// DataObjectType is the kind of object in a share.
type DataObjectType string

// Data object types.
const (
	DataObjectTypeTable  DataObjectType = "TABLE"
	DataObjectTypeSchema DataObjectType = "SCHEMA"
)

// DataObject is an object included in a share.
type DataObject struct {
	Name           string         `json:"name"                       yaml:"name"`
	DataObjectType DataObjectType `json:"data_object_type,omitempty" yaml:"data_object_type,omitempty"`
	SharedAs       string         `json:"shared_as,omitempty"        yaml:"shared_as,omitempty"`
	Comment        string         `json:"comment,omitempty"          yaml:"comment,omitempty"`
	AddedAt        int64          `json:"added_at,omitempty"         yaml:"added_at,omitempty"`
	AddedBy        string         `json:"added_by,omitempty"         yaml:"added_by,omitempty"`
}

// DataObjectUpdateAction says how a data object update is applied.
type DataObjectUpdateAction string

// Data object update actions.
const (
	DataObjectUpdateActionAdd    DataObjectUpdateAction = "ADD"
	DataObjectUpdateActionRemove DataObjectUpdateAction = "REMOVE"
	DataObjectUpdateActionUpdate DataObjectUpdateAction = "UPDATE"
)

// DataObjectUpdate adds, removes or changes one object of a share.
type DataObjectUpdate struct {
	Action     DataObjectUpdateAction `json:"action"`
	DataObject DataObject             `json:"data_object"`
}

// ShareInfo describes a share.
type ShareInfo struct {
	ID          string       `json:"id,omitempty"           yaml:"id,omitempty"`
	Name        string       `json:"name"                   yaml:"name"`
	Owner       string       `json:"owner,omitempty"        yaml:"owner,omitempty"`
	Comment     string       `json:"comment,omitempty"      yaml:"comment,omitempty"`
	DataObjects []DataObject `json:"data_objects,omitempty" yaml:"data_objects,omitempty"`
	CreatedAt   int64        `json:"created_at,omitempty"   yaml:"created_at,omitempty"`
	UpdatedAt   int64        `json:"updated_at,omitempty"   yaml:"updated_at,omitempty"`
}

// CreateShareRequest is the body of a create share call.
type CreateShareRequest struct {
	Name    string `json:"name"`
	Comment string `json:"comment,omitempty"`
}

// UpdateShareRequest changes a share. An empty NewName is treated as unset.
type UpdateShareRequest struct {
	NewName *string            `json:"new_name,omitempty"`
	Comment *string            `json:"comment,omitempty"`
	Owner   *string            `json:"owner,omitempty"`
	Updates []DataObjectUpdate `json:"updates,omitempty"`
}
