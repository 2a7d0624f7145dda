package manifest

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/shahjs01/kylo/pkg/pipeline"
	"github.com/shahjs01/kylo/pkg/security"
	"github.com/shahjs01/kylo/pkg/spark"
	"github.com/shahjs01/kylo/pkg/sqoop"
)

// Props returns the manifest properties as a resolvable property set.
func (m *Manifest) Props() pipeline.Properties {
	return pipeline.Properties(m.Properties)
}

// Credentials returns the cluster security identity declared by the manifest,
// with ${key} references expanded.
func (m *Manifest) Credentials() security.Credentials {
	props := m.Props()
	return security.Credentials{
		Principal:      props.Expand(m.Security.Principal),
		Keytab:         props.Expand(m.Security.Keytab),
		ResourceConfig: props.Expand(m.Security.ResourceConfig),
	}
}

// ImportBuilder translates the import section into a configured command
// builder. All string fields pass through ${key} expansion against the
// manifest properties first.
func (m *Manifest) ImportBuilder(log *zap.Logger) (*sqoop.Builder, error) {
	if m.Import == nil {
		return nil, fmt.Errorf("manifest %q has no import section", m.Name)
	}

	props := m.Props()
	imp := m.Import

	b := sqoop.New(log).
		SetSystemPath(props.Expand(imp.SystemPath)).
		SetSourceDriver(props.Expand(imp.Driver)).
		SetSourceConnectionString(props.Expand(imp.Connect)).
		SetSourceUserName(props.Expand(imp.Username)).
		SetPasswordMode(sqoop.PasswordMode(imp.Password.Mode)).
		SetPasswordHDFSFile(props.Expand(imp.Password.HDFSFile)).
		SetEnteredPassword(imp.Password.Value).
		SetPassphrase(imp.Password.Passphrase).
		SetSourceTableName(props.Expand(imp.Table)).
		SetSourceTableFields(props.Expand(imp.Fields)).
		SetSourceTableWhereClause(props.Expand(imp.Where)).
		SetSourceLoadStrategy(sqoop.LoadStrategy(imp.LoadStrategy)).
		SetSourceCheckColumnName(props.Expand(imp.CheckColumn)).
		SetSourceCheckColumnLastValue(props.Expand(imp.LastValue)).
		SetSourceSplitByField(props.Expand(imp.SplitBy)).
		SetSourceBoundaryQuery(props.Expand(imp.BoundaryQuery)).
		SetClusterMapTasks(imp.Mappers).
		SetClusterUIJobName(m.Name).
		SetTargetHDFSDirectory(props.Expand(imp.TargetDir)).
		SetTargetExtractDataFormat(sqoop.ExtractFormat(imp.ExtractFormat)).
		SetTargetHDFSFileDelimiter(imp.FieldDelimiter).
		SetTargetHiveDelimStrategy(sqoop.DelimStrategy(imp.HiveDelimStrategy)).
		SetTargetHiveReplaceDelim(imp.HiveReplaceDelim).
		SetTargetHiveNullEncoding(sqoop.NullEncoding(imp.NullEncoding)).
		SetTargetCompressionCodec(sqoop.CompressionCodec(imp.Compression))

	return b, nil
}

// SparkBuilder translates the spark section into a configured submit builder.
func (m *Manifest) SparkBuilder(log *zap.Logger) (*spark.Builder, error) {
	if m.Spark == nil {
		return nil, fmt.Errorf("manifest %q has no spark section", m.Name)
	}

	props := m.Props()
	sp := m.Spark

	b := spark.New(log).
		SetAppResource(props.Expand(sp.AppResource)).
		SetMainClass(props.Expand(sp.MainClass)).
		SetMainArgs(props.Expand(sp.MainArgs)).
		SetAppName(props.Expand(sp.AppName)).
		SetMaster(props.Expand(sp.Master)).
		SetSparkHome(props.Expand(sp.SparkHome)).
		SetDriverMemory(sp.DriverMemory).
		SetExecutorMemory(sp.ExecutorMemory).
		SetNumExecutors(sp.NumExecutors).
		SetExecutorCores(sp.ExecutorCores).
		SetNetworkTimeout(sp.NetworkTimeout)

	// Sorted so the rendered argv is deterministic.
	keys := make([]string, 0, len(sp.Conf))
	for key := range sp.Conf {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.SetConf(key, props.Expand(sp.Conf[key]))
	}

	return b, nil
}
