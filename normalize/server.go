package normalize

import "github.com/moyoez/risport-go/types"

// RisPort answers in rpc style, so the info fields may be unqualified.
var serverInfoSpaces = []string{types.NamespaceRisPort, types.NamespaceRIS, ""}

// ServerInfo projects a getServerInfo response into one record per server.
// Unlike DeviceGroups, keys keep the tag as written in the document, prefix included.
func ServerInfo(data []byte) ([]types.ServerInfoRecord, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}

	blocks := root.FindAll(Named("ServerInfo", serverInfoSpaces...))
	if len(blocks) == 0 {
		return nil, missing("ServerInfo")
	}

	records := make([]types.ServerInfoRecord, 0)
	for _, item := range blocks[0].ChildrenMatching(Named("item", serverInfoSpaces...)) {
		record := make(types.ServerInfoRecord, len(item.Children))
		for _, field := range item.Children {
			record[field.Tag()] = field.Text
		}
		records = append(records, record)
	}
	return records, nil
}
