// Package sqoop builds shell-safe sqoop import commands from typed options.
//
// The flag order produced by Build matches sqoop's own flag grammar and is
// fixed; callers cannot reorder tokens. Free-text values are trimmed and
// wrapped as ` "value" ` so the rendered string tokenizes correctly when
// handed to a shell.
package sqoop

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shahjs01/kylo/pkg/secret"
)

const (
	// MaskToken replaces secret-bearing values in logs and masked renderings.
	MaskToken = "*****"
	// DecryptFailedSentinel is rendered in place of an encrypted-text
	// password that could not be decrypted. The malformed value, not an
	// error, surfaces at the external tool.
	DecryptFailedSentinel = "UNABLE_TO_DECRYPT_ENCRYPTED_PASSWORD"

	defaultMapTasks = 4

	passwordLoaderClassProp = "-Dorg.apache.sqoop.credentials.loader.class"
	passwordLoaderClass     = "org.apache.sqoop.util.password.CryptoFileLoader"
	passphraseProp          = "-Dorg.apache.sqoop.credentials.loader.crypto.passphrase"

	nullStringToken    = `--null-string '\\N'`
	nullNonStringToken = `--null-non-string '\\N'`
)

// Builder accumulates typed options for one sqoop import invocation.
// Setters are independent and order-insensitive; fields belonging to a mode
// group only render when their group's mode is active. Build does not mutate
// the builder, so identical option sets always render identical commands.
type Builder struct {
	log *zap.Logger

	systemPath string

	driver   string
	connect  string
	username string

	passwordMode     PasswordMode
	passwordHDFSFile string
	enteredPassword  string
	passphrase       string

	table   string
	fields  string
	where   string
	splitBy string

	targetDir      string
	format         ExtractFormat
	fieldDelimiter string

	loadStrategy LoadStrategy
	checkColumn  string
	lastValue    string

	boundaryQuery string
	jobName       string

	delimStrategy DelimStrategy
	replaceDelim  string
	nullEncoding  NullEncoding

	mapTasks int
	codec    CompressionCodec

	diags []string
}

// New returns a builder with the stock defaults: text format, full load,
// keep delimiters, encode string and non-string nulls, 4 mappers.
func New(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		log:           log,
		systemPath:    "sqoop",
		format:        FormatText,
		loadStrategy:  LoadFull,
		delimStrategy: DelimKeep,
		nullEncoding:  NullEncodeBoth,
		mapTasks:      defaultMapTasks,
	}
}

// SetSystemPath overrides the sqoop executable name or path.
func (b *Builder) SetSystemPath(path string) *Builder {
	if strings.TrimSpace(path) != "" {
		b.systemPath = strings.TrimSpace(path)
	}
	return b
}

// SetSourceDriver sets the JDBC driver class for the source system.
func (b *Builder) SetSourceDriver(driver string) *Builder {
	b.driver = driver
	b.logOption("source driver", driver)
	return b
}

// SetSourceConnectionString sets the JDBC connection string.
func (b *Builder) SetSourceConnectionString(connect string) *Builder {
	b.connect = connect
	b.logOption("source connection string", connect)
	return b
}

// SetSourceUserName sets the user connecting to the source system.
func (b *Builder) SetSourceUserName(username string) *Builder {
	b.username = username
	b.logOption("source user name", username)
	return b
}

// SetPasswordMode selects which credential form renders.
func (b *Builder) SetPasswordMode(mode PasswordMode) *Builder {
	b.passwordMode = mode
	b.logOption("source password mode", string(mode))
	return b
}

// SetPasswordHDFSFile sets the encrypted password file location on HDFS.
// Only rendered in PasswordEncryptedFile mode.
func (b *Builder) SetPasswordHDFSFile(path string) *Builder {
	b.passwordHDFSFile = path
	b.logOption("source password file (hdfs)", MaskToken)
	return b
}

// SetEnteredPassword sets the entered password (clear or encrypted text).
// Only rendered in PasswordClearText or PasswordEncryptedText mode.
func (b *Builder) SetEnteredPassword(password string) *Builder {
	b.enteredPassword = password
	b.logOption("source entered password", MaskToken)
	return b
}

// SetPassphrase sets the passphrase used to produce the encrypted password.
func (b *Builder) SetPassphrase(passphrase string) *Builder {
	b.passphrase = passphrase
	b.logOption("source password passphrase", MaskToken)
	return b
}

// SetSourceTableName sets the table to extract from.
func (b *Builder) SetSourceTableName(table string) *Builder {
	b.table = table
	b.logOption("source table name", table)
	return b
}

// SetSourceTableFields sets the comma-separated field list, or "*" for all
// fields (in which case --columns is omitted entirely).
func (b *Builder) SetSourceTableFields(fields string) *Builder {
	trimmed := strings.TrimSpace(fields)
	if trimmed == "*" {
		b.fields = trimmed
	} else {
		parts := strings.Split(fields, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		b.fields = strings.Join(parts, ",")
	}
	b.logOption("source table fields", b.fields)
	return b
}

// SetSourceTableWhereClause sets an optional WHERE filter.
func (b *Builder) SetSourceTableWhereClause(where string) *Builder {
	b.where = where
	b.logOption("source table where clause", where)
	return b
}

// SetSourceLoadStrategy selects full vs. incremental extraction.
func (b *Builder) SetSourceLoadStrategy(strategy LoadStrategy) *Builder {
	b.loadStrategy = strategy
	b.logOption("source load strategy", string(strategy))
	return b
}

// SetSourceCheckColumnName sets the incremental check column. Ignored for
// full loads.
func (b *Builder) SetSourceCheckColumnName(column string) *Builder {
	b.checkColumn = column
	b.logOption("source check column name", column)
	return b
}

// SetSourceCheckColumnLastValue sets the high-water mark for incremental
// loads. Ignored for full loads.
func (b *Builder) SetSourceCheckColumnLastValue(value string) *Builder {
	b.lastValue = value
	b.logOption("source check column last value", value)
	return b
}

// SetSourceSplitByField sets the parallel-split column. When unset the
// rendered command falls back to --autoreset-to-one-mapper.
func (b *Builder) SetSourceSplitByField(field string) *Builder {
	b.splitBy = field
	b.logOption("source split by field", field)
	return b
}

// SetSourceBoundaryQuery sets the query producing split boundaries.
func (b *Builder) SetSourceBoundaryQuery(query string) *Builder {
	b.boundaryQuery = query
	b.logOption("source boundary query", query)
	return b
}

// SetClusterMapTasks sets the mapper count. Values <= 0 are ignored and the
// previous (or default) value is retained.
func (b *Builder) SetClusterMapTasks(n int) *Builder {
	if n <= 0 {
		b.diags = append(b.diags, fmt.Sprintf("ignoring non-positive mapper count %d; keeping %d", n, b.mapTasks))
		return b
	}
	b.mapTasks = n
	b.logOption("cluster map tasks", fmt.Sprintf("%d", n))
	return b
}

// SetClusterUIJobName sets the display name shown in the cluster UI.
func (b *Builder) SetClusterUIJobName(name string) *Builder {
	b.jobName = name
	b.logOption("cluster ui job name", name)
	return b
}

// SetTargetHDFSDirectory sets the landing directory for extracted data.
func (b *Builder) SetTargetHDFSDirectory(dir string) *Builder {
	b.targetDir = dir
	b.logOption("target hdfs directory", dir)
	return b
}

// SetTargetExtractDataFormat sets the landing data format.
func (b *Builder) SetTargetExtractDataFormat(format ExtractFormat) *Builder {
	b.format = format
	b.logOption("target extract data format", string(format))
	return b
}

// SetTargetHDFSFileDelimiter sets the field delimiter for landed data.
func (b *Builder) SetTargetHDFSFileDelimiter(delim string) *Builder {
	b.fieldDelimiter = delim
	b.logOption("target hdfs file delimiter", delim)
	return b
}

// SetTargetHiveDelimStrategy selects handling of Hive-reserved delimiters.
func (b *Builder) SetTargetHiveDelimStrategy(strategy DelimStrategy) *Builder {
	b.delimStrategy = strategy
	b.logOption("target hive delim strategy", string(strategy))
	return b
}

// SetTargetHiveReplaceDelim sets the replacement delimiter. Only rendered in
// DelimReplace mode.
func (b *Builder) SetTargetHiveReplaceDelim(delim string) *Builder {
	b.replaceDelim = delim
	b.logOption("target hive replace delim", delim)
	return b
}

// SetTargetHiveNullEncoding selects which column classes get null encoding.
func (b *Builder) SetTargetHiveNullEncoding(encoding NullEncoding) *Builder {
	b.nullEncoding = encoding
	b.logOption("target hive null encoding", string(encoding))
	return b
}

// SetTargetCompressionCodec selects output compression. CodecNone disables
// the --compress flag entirely.
func (b *Builder) SetTargetCompressionCodec(codec CompressionCodec) *Builder {
	b.codec = codec
	b.logOption("target compression codec", string(codec))
	return b
}

// JobName returns the configured cluster UI display name, if any.
func (b *Builder) JobName() string { return b.jobName }

func (b *Builder) logOption(option string, value string) {
	b.log.Info("Sqoop option set", zap.String("option", option), zap.String("value", value))
}

// Build renders the command once. The result is immutable; calling Build
// again on the same builder produces an identical Rendered.
func (b *Builder) Build() Rendered {
	r := newRenderer()
	diags := append([]string(nil), b.diags...)

	// 1. Tool name and operation verb.
	r.token(b.systemPath)
	r.token("import")

	// 2. Encrypted-file loader properties lead everything else.
	if b.passwordMode == PasswordEncryptedFile {
		r.property(passwordLoaderClassProp, passwordLoaderClass, false)
		r.property(passphraseProp, b.passphrase, true)
	}

	// 3. Oracle rejects an explicit driver flag.
	if isOracleConnect(b.connect) {
		diags = append(diags, "skipping --driver parameter for oracle connection string")
		b.log.Info("Skipping provided --driver parameter for Oracle database")
	} else {
		r.flagValue("--driver", b.driver, false)
	}

	// 4. Connection and user.
	r.flagValue("--connect", b.connect, false)
	r.flagValue("--username", b.username, false)

	// 5. Credential matching the active password mode.
	switch b.passwordMode {
	case PasswordEncryptedFile:
		r.flagValue("--password-file", b.passwordHDFSFile, true)
	case PasswordClearText:
		r.flagValue("--password", b.enteredPassword, true)
	case PasswordEncryptedText:
		password, err := secret.Decrypt(b.enteredPassword, b.passphrase)
		if err != nil {
			password = DecryptFailedSentinel
			diags = append(diags, fmt.Sprintf("unable to decrypt entered password: %v", err))
			b.log.Warn("Unable to decrypt entered password", zap.Error(err))
		} else {
			b.log.Info("Entered encrypted password was decrypted successfully")
		}
		r.flagValue("--password", password, true)
	}

	// 6. Table shape.
	r.flagValue("--table", b.table, false)
	if strings.TrimSpace(b.fields) != "*" {
		r.flagValue("--columns", b.fields, false)
	}
	if b.where != "" {
		r.flagValue("--where", b.where, false)
	}

	// 7. Split field, or single-mapper fallback.
	if b.splitBy != "" {
		r.flagValue("--split-by", b.splitBy, false)
	} else {
		r.token("--autoreset-to-one-mapper")
	}

	// 8. Landing location, format, delimiter.
	r.flagValue("--target-dir", b.targetDir, false)
	r.token(b.format.flag())
	r.flagValue("--fields-terminated-by", b.fieldDelimiter, false)

	// 9. Incremental-load parameters.
	if b.loadStrategy != LoadFull {
		switch b.loadStrategy {
		case LoadIncrementalAppend:
			r.token("--incremental")
			r.token("append")
		case LoadIncrementalLastModified:
			r.token("--incremental")
			r.token("lastmodified")
		}
		r.flagValue("--check-column", b.checkColumn, false)
		r.flagValue("--last-value", b.lastValue, false)
	}

	// 10. Hive delimiter handling and null encoding.
	switch b.delimStrategy {
	case DelimDrop:
		r.token("--hive-drop-import-delims")
	case DelimReplace:
		r.flagValue("--hive-delims-replacement", b.replaceDelim, false)
	}
	switch b.nullEncoding {
	case NullEncodeBoth:
		r.token(nullStringToken)
		r.token(nullNonStringToken)
	case NullEncodeStringOnly:
		r.token(nullStringToken)
	case NullEncodeNonStringOnly:
		r.token(nullNonStringToken)
	}

	// 11. Boundary query.
	if b.boundaryQuery != "" {
		r.flagValue("--boundary-query", b.boundaryQuery, false)
	}

	// 12. Mapper count (defaulted, never <= 0).
	r.flagValue("--num-mappers", fmt.Sprintf("%d", b.mapTasks), false)

	// 13. Compression.
	if class := b.codec.Class(); class != "" {
		r.token("--compress")
		r.flagValue("--compression-codec", class, false)
	}

	// 14. Job display name is the final token, no trailing space.
	if b.jobName != "" {
		r.finalFlagValue("--mapreduce-job-name", b.jobName)
	}

	return Rendered{command: r.command(), masked: r.maskedCommand(), diags: diags}
}
