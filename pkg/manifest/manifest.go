// Package manifest provides loading and validation of kylo job manifests.
//
// A job manifest is a YAML or JSON file that declares a single external job:
// a relational import rendered as a sqoop command, or a spark application
// submitted through spark-submit. The manifest carries the source and target
// configuration, the cluster security settings, and free-form properties
// referenced from other values with ${key} expressions.
//
// Manifests are validated against a JSON Schema to ensure correctness before
// execution. The schema enforces strict typing and disallows unknown
// properties.
//
// Example manifest (YAML):
//
//	version: "1.0"
//	kind: import
//	name: customers-ingest
//	security:
//	  principal: etl@EXAMPLE.COM
//	  keytab: /etc/security/keytabs/etl.keytab
//	  resource_config: /etc/hadoop/conf/core-site.xml
//	import:
//	  connect: jdbc:mysql://db.example.com/crm
//	  username: etl
//	  password:
//	    mode: clear_text_entry
//	    value: hunter2
//	  table: CUSTOMERS
//	  target_dir: /landing/${table.lower}
package manifest

// Job kinds accepted by the "kind" field.
const (
	KindImport = "import"
	KindSpark  = "spark"
)

// Manifest represents a validated job manifest.
//
// Required fields are Version, Kind, and Name. The section matching Kind
// (Import or Spark) must be present; the other is ignored.
type Manifest struct {
	// Schema is an optional JSON Schema reference for editor support.
	Schema string `json:"$schema,omitempty" yaml:"$schema,omitempty"`

	// Version is the manifest schema version. Must be "1.0".
	Version string `json:"version" yaml:"version"`

	// Kind selects the job type: "import" or "spark".
	Kind string `json:"kind" yaml:"kind"`

	// Name identifies the job in logs, the cluster UI, and the job registry.
	Name string `json:"name" yaml:"name"`

	// Security configures cluster authentication (optional).
	Security SecurityConfig `json:"security,omitempty" yaml:"security,omitempty"`

	// Import configures a relational import job.
	Import *ImportConfig `json:"import,omitempty" yaml:"import,omitempty"`

	// Spark configures a spark application job.
	Spark *SparkConfig `json:"spark,omitempty" yaml:"spark,omitempty"`

	// Properties are free-form values referenced from other manifest fields
	// with ${key} expressions.
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// SecurityConfig carries the Kerberos identity for secured clusters.
//
// All fields may be empty on unsecured clusters. ResourceConfig lists the
// Hadoop site XML files, comma separated, that determine whether the cluster
// requires authentication.
type SecurityConfig struct {
	Principal      string `json:"principal,omitempty" yaml:"principal,omitempty"`
	Keytab         string `json:"keytab,omitempty" yaml:"keytab,omitempty"`
	ResourceConfig string `json:"resource_config,omitempty" yaml:"resource_config,omitempty"`
}

// ImportConfig configures a relational import job.
type ImportConfig struct {
	// SystemPath is the sqoop executable. Default: "sqoop".
	SystemPath string `json:"system_path,omitempty" yaml:"system_path,omitempty"`

	// Driver is the JDBC driver class. Omitted for Oracle sources regardless
	// of this setting.
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`

	// Connect is the JDBC connection string.
	Connect string `json:"connect" yaml:"connect"`

	// Username is the source database user.
	Username string `json:"username" yaml:"username"`

	// Password configures credential delivery.
	Password PasswordConfig `json:"password,omitempty" yaml:"password,omitempty"`

	// Table is the source table name.
	Table string `json:"table" yaml:"table"`

	// Fields is a comma-separated column list, or "*" for all columns.
	// Default: "*".
	Fields string `json:"fields,omitempty" yaml:"fields,omitempty"`

	// Where is an optional row filter predicate.
	Where string `json:"where,omitempty" yaml:"where,omitempty"`

	// LoadStrategy selects full vs. incremental extraction.
	// Default: "full_load".
	LoadStrategy string `json:"load_strategy,omitempty" yaml:"load_strategy,omitempty"`

	// CheckColumn drives incremental strategies.
	CheckColumn string `json:"check_column,omitempty" yaml:"check_column,omitempty"`

	// LastValue is the high-water mark from the previous incremental run.
	LastValue string `json:"last_value,omitempty" yaml:"last_value,omitempty"`

	// SplitBy is the column used to partition work across mappers.
	SplitBy string `json:"split_by,omitempty" yaml:"split_by,omitempty"`

	// BoundaryQuery overrides min/max split boundary discovery.
	BoundaryQuery string `json:"boundary_query,omitempty" yaml:"boundary_query,omitempty"`

	// Mappers is the parallel task count. Default: 4.
	Mappers int `json:"mappers,omitempty" yaml:"mappers,omitempty"`

	// TargetDir is the HDFS landing directory.
	TargetDir string `json:"target_dir" yaml:"target_dir"`

	// ExtractFormat is the landing file format. Default: "text".
	ExtractFormat string `json:"extract_format,omitempty" yaml:"extract_format,omitempty"`

	// FieldDelimiter separates fields in text output.
	FieldDelimiter string `json:"field_delimiter,omitempty" yaml:"field_delimiter,omitempty"`

	// HiveDelimStrategy controls Hive-reserved delimiters inside string
	// data: "keep", "drop", or "replace".
	HiveDelimStrategy string `json:"hive_delim_strategy,omitempty" yaml:"hive_delim_strategy,omitempty"`

	// HiveReplaceDelim is the replacement used by the "replace" strategy.
	HiveReplaceDelim string `json:"hive_replace_delim,omitempty" yaml:"hive_replace_delim,omitempty"`

	// NullEncoding selects which column classes get Hive null encoding.
	// Default: "string_and_nonstring".
	NullEncoding string `json:"null_encoding,omitempty" yaml:"null_encoding,omitempty"`

	// Compression selects the output codec. Default: "none".
	Compression string `json:"compression,omitempty" yaml:"compression,omitempty"`
}

// PasswordConfig selects exactly one credential delivery mechanism.
type PasswordConfig struct {
	// Mode is "encrypted_on_hdfs_file", "clear_text_entry", or
	// "encrypted_text_entry".
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`

	// HDFSFile locates the encrypted password file for the
	// encrypted_on_hdfs_file mode.
	HDFSFile string `json:"hdfs_file,omitempty" yaml:"hdfs_file,omitempty"`

	// Value is the entered password for the two entry modes.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`

	// Passphrase unlocks the encrypted file or the encrypted entered value.
	Passphrase string `json:"passphrase,omitempty" yaml:"passphrase,omitempty"`
}

// SparkConfig configures a spark application job.
type SparkConfig struct {
	// AppResource is the application jar or script to submit.
	AppResource string `json:"app_resource" yaml:"app_resource"`

	// MainClass is the application entry point for JVM applications.
	MainClass string `json:"main_class,omitempty" yaml:"main_class,omitempty"`

	// MainArgs is a comma-separated argument list passed to the application.
	MainArgs string `json:"main_args,omitempty" yaml:"main_args,omitempty"`

	// AppName labels the application in the cluster UI. Defaults to the
	// manifest name.
	AppName string `json:"app_name,omitempty" yaml:"app_name,omitempty"`

	// Master is the cluster manager URL.
	Master string `json:"master,omitempty" yaml:"master,omitempty"`

	// SparkHome locates the spark installation holding bin/spark-submit.
	SparkHome string `json:"spark_home,omitempty" yaml:"spark_home,omitempty"`

	DriverMemory   string `json:"driver_memory,omitempty" yaml:"driver_memory,omitempty"`
	ExecutorMemory string `json:"executor_memory,omitempty" yaml:"executor_memory,omitempty"`
	NumExecutors   string `json:"num_executors,omitempty" yaml:"num_executors,omitempty"`
	ExecutorCores  string `json:"executor_cores,omitempty" yaml:"executor_cores,omitempty"`
	NetworkTimeout string `json:"network_timeout,omitempty" yaml:"network_timeout,omitempty"`

	// Conf holds additional runtime settings passed as --conf key=value.
	Conf map[string]string `json:"conf,omitempty" yaml:"conf,omitempty"`
}

// Default values for optional configuration fields.
const (
	// DefaultVersion is the current manifest schema version.
	DefaultVersion = "1.0"

	// DefaultSystemPath is the default sqoop executable.
	DefaultSystemPath = "sqoop"

	// DefaultMappers is the default parallel task count.
	DefaultMappers = 4

	// DefaultLoadStrategy is the default extraction strategy.
	DefaultLoadStrategy = "full_load"

	// DefaultExtractFormat is the default landing file format.
	DefaultExtractFormat = "text"

	// DefaultFields selects all source columns.
	DefaultFields = "*"

	// DefaultNullEncoding applies Hive null encoding to string and
	// non-string columns alike.
	DefaultNullEncoding = "string_and_nonstring"

	// DefaultCompression is the default output codec.
	DefaultCompression = "none"

	// DefaultPasswordMode is the default credential delivery mechanism.
	DefaultPasswordMode = "clear_text_entry"
)

// ApplyDefaults fills in default values for optional fields.
//
// This should be called after loading and validating the manifest to ensure
// all optional fields have sensible values.
func (m *Manifest) ApplyDefaults() {
	if m.Import != nil {
		if m.Import.SystemPath == "" {
			m.Import.SystemPath = DefaultSystemPath
		}
		if m.Import.Mappers == 0 {
			m.Import.Mappers = DefaultMappers
		}
		if m.Import.LoadStrategy == "" {
			m.Import.LoadStrategy = DefaultLoadStrategy
		}
		if m.Import.ExtractFormat == "" {
			m.Import.ExtractFormat = DefaultExtractFormat
		}
		if m.Import.Fields == "" {
			m.Import.Fields = DefaultFields
		}
		if m.Import.NullEncoding == "" {
			m.Import.NullEncoding = DefaultNullEncoding
		}
		if m.Import.Compression == "" {
			m.Import.Compression = DefaultCompression
		}
		if m.Import.Password.Mode == "" {
			m.Import.Password.Mode = DefaultPasswordMode
		}
	}
	if m.Spark != nil && m.Spark.AppName == "" {
		m.Spark.AppName = m.Name
	}
}
