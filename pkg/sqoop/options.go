package sqoop

import "strings"

// PasswordMode selects the mutually exclusive mechanism by which the source
// database credential is supplied. Only the value belonging to the active
// mode is ever rendered; values set for other modes are ignored silently.
type PasswordMode string

const (
	// PasswordEncryptedFile points at an encrypted password file on HDFS,
	// unlocked by a passphrase passed as a loader system property.
	PasswordEncryptedFile PasswordMode = "encrypted_on_hdfs_file"
	// PasswordClearText passes the entered password through as-is.
	PasswordClearText PasswordMode = "clear_text_entry"
	// PasswordEncryptedText decrypts the entered password locally before
	// rendering. Decryption failure substitutes a sentinel value so the
	// failure surfaces at the external tool, not as a build error.
	PasswordEncryptedText PasswordMode = "encrypted_text_entry"
)

// LoadStrategy selects full extract vs. incremental load.
type LoadStrategy string

const (
	LoadFull                    LoadStrategy = "full_load"
	LoadIncrementalAppend       LoadStrategy = "incremental_append"
	LoadIncrementalLastModified LoadStrategy = "incremental_lastmodified"
)

// ExtractFormat is the landing format for extracted data.
type ExtractFormat string

const (
	FormatText         ExtractFormat = "text"
	FormatAvro         ExtractFormat = "avro"
	FormatSequenceFile ExtractFormat = "sequence_file"
	FormatParquet      ExtractFormat = "parquet"
)

func (f ExtractFormat) flag() string {
	switch f {
	case FormatAvro:
		return "--as-avrodatafile"
	case FormatSequenceFile:
		return "--as-sequencefile"
	case FormatParquet:
		return "--as-parquetfile"
	default:
		return "--as-textfile"
	}
}

// CompressionCodec maps a compression choice to its Hadoop codec class.
type CompressionCodec string

const (
	CodecNone   CompressionCodec = "none"
	CodecGzip   CompressionCodec = "gzip"
	CodecSnappy CompressionCodec = "snappy"
	CodecBzip2  CompressionCodec = "bzip2"
	CodecLzo    CompressionCodec = "lzo"
)

// codecClasses is part of the process-wide constant table; values are fixed
// fully-qualified Hadoop class names.
var codecClasses = map[CompressionCodec]string{
	CodecGzip:   "org.apache.hadoop.io.compress.GzipCodec",
	CodecSnappy: "org.apache.hadoop.io.compress.SnappyCodec",
	CodecBzip2:  "org.apache.hadoop.io.compress.BZip2Codec",
	CodecLzo:    "com.hadoop.compression.lzo.LzoCodec",
}

// Class returns the codec class name, or "" for none/unknown.
func (c CompressionCodec) Class() string {
	return codecClasses[c]
}

// DelimStrategy controls handling of Hive-reserved delimiters in string data.
type DelimStrategy string

const (
	DelimKeep    DelimStrategy = "keep"
	DelimDrop    DelimStrategy = "drop"
	DelimReplace DelimStrategy = "replace"
)

// NullEncoding controls which column classes get Hive null encoding.
type NullEncoding string

const (
	NullEncodeBoth          NullEncoding = "string_and_nonstring"
	NullEncodeStringOnly    NullEncoding = "string_only"
	NullEncodeNonStringOnly NullEncoding = "nonstring_only"
	NullEncodeNone          NullEncoding = "none"
)

// isOracleConnect reports whether the connection string identifies an Oracle
// source. Oracle rejects an explicit --driver flag, so rendering omits it.
func isOracleConnect(connect string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(connect)), "jdbc:oracle")
}
