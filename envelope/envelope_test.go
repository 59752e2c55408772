package envelope

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/moyoez/risport-go/types"
)

// collectText returns the text of every element with the given local name and namespace, in document order.
func collectText(t *testing.T, doc []byte, space, local string) []string {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	var (
		values []string
		inside bool
		cur    strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("envelope is not well-formed: %v", err)
		}
		switch v := tok.(type) {
		case xml.StartElement:
			if v.Name.Space == space && v.Name.Local == local {
				inside = true
				cur.Reset()
			}
		case xml.CharData:
			if inside {
				cur.Write(v)
			}
		case xml.EndElement:
			if inside && v.Name.Space == space && v.Name.Local == local {
				values = append(values, cur.String())
				inside = false
			}
		}
	}
	return values
}

// TestBuildSelectCmDeviceExtExact checks the full document for a single item
func TestBuildSelectCmDeviceExtExact(t *testing.T) {
	doc, err := BuildSelectCmDeviceExt(types.DefaultQueryCriteria("SEP001E136BF578"))
	if err != nil {
		t.Fatalf("BuildSelectCmDeviceExt failed: %v", err)
	}

	expected := `<SOAP-ENV:Envelope xmlns:ns0="http://schemas.cisco.com/ast/soap" xmlns:ns1="http://schemas.xmlsoap.org/soap/envelope/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<SOAP-ENV:Header></SOAP-ENV:Header><ns1:Body><ns0:selectCmDeviceExt><ns0:StateInfo></ns0:StateInfo><ns0:CmSelectionCriteria>` +
		`<ns0:MaxReturnedDevices>1000</ns0:MaxReturnedDevices><ns0:DeviceClass>Phone</ns0:DeviceClass><ns0:Model>255</ns0:Model>` +
		`<ns0:Status>Any</ns0:Status><ns0:NodeName></ns0:NodeName><ns0:SelectBy>Name</ns0:SelectBy>` +
		`<ns0:SelectItems><ns0:item><ns0:Item>SEP001E136BF578</ns0:Item></ns0:item></ns0:SelectItems>` +
		`<ns0:Protocol>Any</ns0:Protocol><ns0:DownloadStatus>Any</ns0:DownloadStatus>` +
		`</ns0:CmSelectionCriteria></ns0:selectCmDeviceExt></ns1:Body></SOAP-ENV:Envelope>`
	if string(doc) != expected {
		t.Errorf("unexpected envelope:\n got: %s\nwant: %s", doc, expected)
	}
}

// TestBuildSelectCmDeviceExtItemOrder checks that N items produce N item/Item pairs in input order
func TestBuildSelectCmDeviceExtItemOrder(t *testing.T) {
	for _, n := range []int{0, 1, 3, 17} {
		t.Run(fmt.Sprintf("items=%d", n), func(t *testing.T) {
			items := make([]string, n)
			for i := range items {
				items[i] = fmt.Sprintf("SEP%012d", n-i)
			}
			doc, err := BuildSelectCmDeviceExt(types.DefaultQueryCriteria(items...))
			if err != nil {
				t.Fatalf("BuildSelectCmDeviceExt failed: %v", err)
			}

			got := collectText(t, doc, types.NamespaceRIS, "Item")
			if len(got) != n {
				t.Fatalf("expected %d Item elements, got %d", n, len(got))
			}
			for i := range items {
				if got[i] != items[i] {
					t.Errorf("Item %d: expected %q, got %q", i, items[i], got[i])
				}
			}
			if wrappers := collectText(t, doc, types.NamespaceRIS, "item"); len(wrappers) != n {
				t.Errorf("expected %d item wrappers, got %d", n, len(wrappers))
			}
		})
	}
}

// TestBuildSelectCmDeviceExtFieldOrder checks the fixed order of the selection criteria children
func TestBuildSelectCmDeviceExtFieldOrder(t *testing.T) {
	criteria := types.QueryCriteria{
		SelectItems:    []string{"1000"},
		SelectBy:       types.SelectByDirNumber,
		DeviceClass:    types.DeviceClassSIPTrunk,
		Model:          "36213",
		Status:         types.DeviceStatusPartiallyRegistered,
		Protocol:       types.DeviceProtocolSIP,
		DownloadStatus: types.DownloadStatusUpgrading,
		NodeName:       "cucm-sub1",
	}
	doc, err := BuildSelectCmDeviceExt(criteria)
	if err != nil {
		t.Fatalf("BuildSelectCmDeviceExt failed: %v", err)
	}

	order := []string{
		"<ns0:MaxReturnedDevices>1000<",
		"<ns0:DeviceClass>SIPTrunk<",
		"<ns0:Model>36213<",
		"<ns0:Status>PartiallyRegistered<",
		"<ns0:NodeName>cucm-sub1<",
		"<ns0:SelectBy>DirNumber<",
		"<ns0:SelectItems>",
		"<ns0:Protocol>SIP<",
		"<ns0:DownloadStatus>Upgrading<",
	}
	last := -1
	for _, fragment := range order {
		idx := strings.Index(string(doc), fragment)
		if idx < 0 {
			t.Fatalf("fragment %q missing from envelope", fragment)
		}
		if idx < last {
			t.Errorf("fragment %q is out of order", fragment)
		}
		last = idx
	}
}

// TestBuildSelectCmDeviceExtKeepsCase checks that enum tokens are not normalized
func TestBuildSelectCmDeviceExtKeepsCase(t *testing.T) {
	criteria := types.DefaultQueryCriteria("x")
	criteria.Status = "registered"
	doc, err := BuildSelectCmDeviceExt(criteria)
	if err != nil {
		t.Fatalf("BuildSelectCmDeviceExt failed: %v", err)
	}
	if !bytes.Contains(doc, []byte("<ns0:Status>registered</ns0:Status>")) {
		t.Errorf("status token was altered: %s", doc)
	}
}

// TestBuildSelectCmDeviceExtEscapes checks that markup in values is escaped and the document stays well-formed
func TestBuildSelectCmDeviceExtEscapes(t *testing.T) {
	item := `Lobby <east> & "west"`
	doc, err := BuildSelectCmDeviceExt(types.DefaultQueryCriteria(item))
	if err != nil {
		t.Fatalf("BuildSelectCmDeviceExt failed: %v", err)
	}
	if bytes.Contains(doc, []byte("<east>")) {
		t.Fatalf("raw markup leaked into envelope: %s", doc)
	}
	got := collectText(t, doc, types.NamespaceRIS, "Item")
	if len(got) != 1 || got[0] != item {
		t.Errorf("expected item %q to round-trip, got %v", item, got)
	}
}

// TestBuildGetServerInfo checks host order and the RisPort namespace
func TestBuildGetServerInfo(t *testing.T) {
	hosts := []string{"cucm-pub", "10.1.1.12", "cucm-sub2"}
	doc, err := BuildGetServerInfo(types.ServerQuery{Hosts: hosts})
	if err != nil {
		t.Fatalf("BuildGetServerInfo failed: %v", err)
	}

	got := collectText(t, doc, types.NamespaceRisPort, "Name")
	if len(got) != len(hosts) {
		t.Fatalf("expected %d Name elements, got %d", len(hosts), len(got))
	}
	for i := range hosts {
		if got[i] != hosts[i] {
			t.Errorf("Name %d: expected %q, got %q", i, hosts[i], got[i])
		}
	}
	if len(collectText(t, doc, types.NamespaceSOAPEnvelope, "Header")) != 1 {
		t.Error("expected an empty SOAP header")
	}
	if !bytes.Contains(doc, []byte("<ns0:getServerInfo><ns0:Hosts>")) {
		t.Errorf("unexpected body layout: %s", doc)
	}
}
