// Package normalize turns RIS SOAP responses into plain records.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/moyoez/risport-go/types"
)

func ris(local string) Matcher {
	return Named(local, types.NamespaceRIS)
}

// DeviceGroups projects a selectCmDeviceExt response into one group per cluster node.
// A total of zero (or less) yields an empty result whatever else the document holds.
func DeviceGroups(data []byte) ([]types.ServerGroup, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}

	totals := root.FindAll(ris("TotalDevicesFound"))
	if len(totals) == 0 {
		return nil, missing("TotalDevicesFound")
	}
	total, err := strconv.Atoi(strings.TrimSpace(totals[0].Text))
	if err != nil {
		return nil, fmt.Errorf("invalid TotalDevicesFound %q: %w", totals[0].Text, err)
	}
	if total <= 0 {
		return []types.ServerGroup{}, nil
	}

	groups := make([]types.ServerGroup, 0)
	byName := make(map[string]int)
	for _, cmNodes := range root.FindAll(ris("CmNodes")) {
		for _, nodeItem := range cmNodes.ChildrenMatching(ris("item")) {
			name := nodeItem.Child(ris("Name"))
			if name == nil {
				return nil, missing("CmNodes/item/Name")
			}
			devices := make([]types.DeviceRecord, 0)
			for _, cmDevices := range nodeItem.ChildrenMatching(ris("CmDevices")) {
				for _, entry := range cmDevices.ChildrenMatching(ris("item")) {
					record, err := deviceRecord(entry)
					if err != nil {
						return nil, fmt.Errorf("node %s: %w", name.Text, err)
					}
					devices = append(devices, record)
				}
			}

			// a node reported twice is folded into its first group
			if idx, ok := byName[name.Text]; ok {
				groups[idx].Devices = append(groups[idx].Devices, devices...)
				continue
			}
			byName[name.Text] = len(groups)
			groups = append(groups, types.ServerGroup{Server: name.Text, Devices: devices})
		}
	}
	return groups, nil
}

// deviceRecord maps each child of a device entry by local name. IPAddress is the one
// field that may arrive wrapped (IPAddress/item/IP); it is flattened to the inner text.
func deviceRecord(entry *Node) (types.DeviceRecord, error) {
	record := make(types.DeviceRecord, len(entry.Children))
	for _, field := range entry.Children {
		if field.Local == "IPAddress" && len(field.Children) > 0 {
			wrapper := field.Children[0]
			if len(wrapper.Children) == 0 {
				return nil, missing("IPAddress/" + wrapper.Local + "/*")
			}
			record[field.Local] = wrapper.Children[0].Text
			continue
		}
		record[field.Local] = field.Text
	}
	return record, nil
}
