package plugin

import (
	"github.com/ipfs/kubo/plugin"
	"github.com/ipld/go-ipld-prime/multicodec"

	dagjson "github.com/vulcanize/go-codec-dagjson"
)

// Plugins is exported list of plugins that will be loaded
var Plugins = []plugin.Plugin{
	&jsonIPLDPlugin{},
}

type jsonIPLDPlugin struct{}

var _ plugin.PluginIPLD = (*jsonIPLDPlugin)(nil)

// Name satisfies the Plugin interface
func (*jsonIPLDPlugin) Name() string {
	return "ipld-dag-json"
}

// Version satisfies the Plugin interface
func (*jsonIPLDPlugin) Version() string {
	return "0.0.1"
}

// Init satisfies the Plugin interface
func (*jsonIPLDPlugin) Init(_ *plugin.Environment) error {
	return nil
}

// Register satisfies the PluginIPLD interface
func (*jsonIPLDPlugin) Register(reg multicodec.Registry) error {
	reg.RegisterDecoder(dagjson.MultiCodecType, dagjson.Decode)
	reg.RegisterEncoder(dagjson.MultiCodecType, dagjson.Encode)
	return nil
}
