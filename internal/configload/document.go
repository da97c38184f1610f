package configload

// Document is the single root of a weiser configuration file (spec §6).
type Document struct {
	Version     int                 `yaml:"version"`
	Datasources []DatasourceConfig  `yaml:"datasources"`
	Connections []ConnectionConfig  `yaml:"connections"`
	Checks      []CheckConfig       `yaml:"checks"`
	Includes    []string            `yaml:"includes"`
	SlackURL    string              `yaml:"slack_url"`
}

// DatasourceConfig declares one SQL-speaking data source.
type DatasourceConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // postgresql, mysql, cube, snowflake, databricks, bigquery

	// Common connection fields. Either these individually or URI suffices.
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DBName   string `yaml:"db_name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	URI      string `yaml:"uri"`

	// Snowflake
	Account   string `yaml:"account"`
	Warehouse string `yaml:"warehouse"`
	Role      string `yaml:"role"`
	SchemaName string `yaml:"schema_name"`

	// Databricks
	HTTPPath    string `yaml:"http_path"`
	AccessToken string `yaml:"access_token"`
	Catalog     string `yaml:"catalog"`

	// BigQuery
	ProjectID        string `yaml:"project_id"`
	DatasetID        string `yaml:"dataset_id"`
	CredentialsPath  string `yaml:"credentials_path"`
	Location         string `yaml:"location"`
}

// ConnectionConfig declares the metric store (and, in principle, other
// auxiliary connections). At least one record of type "metricstore" is
// required.
type ConnectionConfig struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`    // metricstore
	DBType string `yaml:"db_type"` // duckdb, postgresql

	// Relational backend
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DBName   string `yaml:"db_name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	URI      string `yaml:"uri"`

	// Embedded backend
	Path string `yaml:"path"`

	// Optional S3 mirror for the embedded backend.
	S3AccessKey       string `yaml:"s3_access_key"`
	S3SecretAccessKey string `yaml:"s3_secret_access_key"`
	S3Endpoint        string `yaml:"s3_endpoint"`
	S3Region          string `yaml:"s3_region"`
	S3Bucket          string `yaml:"s3_bucket"`
	S3URLStyle        string `yaml:"s3_url_style"`
}

// HasS3Mirror reports whether the connection carries enough S3 fields to
// mirror the embedded store on shutdown.
func (c ConnectionConfig) HasS3Mirror() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretAccessKey != ""
}

// TimeDimensionConfig is the YAML shape of model.TimeDimension.
type TimeDimensionConfig struct {
	Name        string `yaml:"name"`
	Granularity string `yaml:"granularity"`
}

// CheckConfig is the YAML shape of a CheckDescriptor (spec §3). Threshold
// and Dataset use yaml.Node so a single field can hold either a scalar or
// a list without two separate YAML keys.
type CheckConfig struct {
	Name          string               `yaml:"name"`
	Datasource    string               `yaml:"datasource"`
	Dataset       RawNode              `yaml:"dataset"`
	Type          string               `yaml:"type"`
	Condition     string               `yaml:"condition"`
	Threshold     RawNode              `yaml:"threshold"`
	Measure       string               `yaml:"measure"`
	Dimensions    []string             `yaml:"dimensions"`
	TimeDimension *TimeDimensionConfig `yaml:"time_dimension"`
	Filter        RawNode              `yaml:"filter"`
	CheckID       string               `yaml:"check_id"`
	Description   string               `yaml:"description"`
}
