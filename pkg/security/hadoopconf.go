package security

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// authenticationProperty is the site-file key that switches a cluster into
// secured mode when set to "kerberos".
const authenticationProperty = "hadoop.security.authentication"

// SiteFileLoader reads Hadoop site files (core-site.xml and friends) and
// derives the cluster security configuration. Later files override earlier
// ones, matching Hadoop's own resource ordering.
type SiteFileLoader struct{}

func NewSiteFileLoader() *SiteFileLoader {
	return &SiteFileLoader{}
}

type siteFile struct {
	Properties []siteProperty `xml:"property"`
}

type siteProperty struct {
	Name  string `xml:"name"`
	Value string `xml:"value"`
}

func (l *SiteFileLoader) Load(ctx context.Context, resourcePaths []string) (*ClusterConfig, error) {
	if len(resourcePaths) == 0 {
		return nil, fmt.Errorf("no configuration resources supplied")
	}

	props := make(map[string]string)
	for _, path := range resourcePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read configuration resource %s: %w", path, err)
		}

		var sf siteFile
		if err := xml.Unmarshal(data, &sf); err != nil {
			return nil, fmt.Errorf("parse configuration resource %s: %w", path, err)
		}
		for _, p := range sf.Properties {
			props[strings.TrimSpace(p.Name)] = strings.TrimSpace(p.Value)
		}
	}

	return &ClusterConfig{
		SecurityEnabled: strings.EqualFold(props[authenticationProperty], "kerberos"),
		Properties:      props,
	}, nil
}
