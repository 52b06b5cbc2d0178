package config

import (
	"fmt"
	"strconv"

	"fjacquet/sdp-connect/internal/fileutils"
	"fjacquet/sdp-connect/internal/xmlutils"
)

// LegacySettings holds the values of a settings.xml file written for the
// earlier Windows loader:
//
//	<settings version="1.0">
//	  <path><log/><registry/><errorRegistry/></path>
//	  <agentId/><salepointId/><regionId/><deviceId/><versionProtocol/>
//	</settings>
type LegacySettings struct {
	Version          string
	LogDir           string
	RegistryDir      string
	ErrorRegistryDir string
	Agent            AgentConfig
}

// LoadLegacySettings reads a legacy settings file. All three directories must
// exist; a missing protocol version defaults to "0".
func LoadLegacySettings(path string) (*LegacySettings, error) {
	root, err := xmlutils.LoadXMLFile(path)
	if err != nil {
		return nil, err
	}
	xp := xmlutils.DefaultSettingsXPaths()

	value := func(xpath string) string {
		v, _, _ := xmlutils.FirstValue(root, xpath)
		return v
	}

	version, ok, err := xmlutils.FirstValue(root, xp.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("settings file %s does not declare a version", path)
	}

	settings := &LegacySettings{
		Version:          version,
		LogDir:           value(xp.LogPath),
		RegistryDir:      value(xp.RegistryPath),
		ErrorRegistryDir: value(xp.ErrorPath),
		Agent: AgentConfig{
			AgentID:         value(xp.AgentID),
			SalepointID:     value(xp.SalepointID),
			DeviceID:        value(xp.DeviceID),
			ProtocolVersion: value(xp.ProtocolVersion),
		},
	}
	if settings.Agent.ProtocolVersion == "" {
		settings.Agent.ProtocolVersion = "0"
	}

	regionID := value(xp.RegionID)
	settings.Agent.RegionID, err = strconv.Atoi(regionID)
	if err != nil {
		return nil, fmt.Errorf("settings file %s: regionId '%s' is not an integer", path, regionID)
	}

	dirs := []struct {
		name string
		path string
	}{
		{"log", settings.LogDir},
		{"registry", settings.RegistryDir},
		{"errorRegistry", settings.ErrorRegistryDir},
	}
	for _, d := range dirs {
		if !fileutils.DirectoryExists(d.path) {
			return nil, fmt.Errorf("settings file %s: %s directory '%s' not found", path, d.name, d.path)
		}
	}

	return settings, nil
}

// Apply copies the legacy values over cfg.
func (s *LegacySettings) Apply(cfg *Config) {
	cfg.Paths.Log = s.LogDir
	cfg.Paths.Registry = s.RegistryDir
	cfg.Paths.ErrorRegistry = s.ErrorRegistryDir
	cfg.Agent = s.Agent
}
