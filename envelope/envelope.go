// Package envelope builds the SOAP 1.1 request documents sent to the RIS services.
package envelope

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"github.com/moyoez/risport-go/types"
)

// Element names are written with their prefix as part of the local name, so the
// encoder emits them verbatim and only the root declares namespaces.
const (
	prefixSchema   = "ns0"
	prefixBody     = "ns1"
	prefixEnvelope = "SOAP-ENV"
)

// builder wraps an xml.Encoder and keeps the first error, so element helpers can be chained.
type builder struct {
	buf bytes.Buffer
	enc *xml.Encoder
	err error
}

func newBuilder() *builder {
	b := &builder{}
	b.enc = xml.NewEncoder(&b.buf)
	return b
}

func (b *builder) start(name string, attrs ...xml.Attr) {
	if b.err != nil {
		return
	}
	b.err = b.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (b *builder) end(name string) {
	if b.err != nil {
		return
	}
	b.err = b.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

// text writes character data. The encoder escapes &, <, > and quotes.
func (b *builder) text(s string) {
	if b.err != nil || s == "" {
		return
	}
	b.err = b.enc.EncodeToken(xml.CharData(s))
}

func (b *builder) leaf(name, value string) {
	b.start(name)
	b.text(value)
	b.end(name)
}

func (b *builder) bytes() ([]byte, error) {
	if b.err == nil {
		b.err = b.enc.Flush()
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.buf.Bytes(), nil
}

func schema(local string) string {
	return prefixSchema + ":" + local
}

// open writes the envelope root, an empty header and opens the body.
func (b *builder) open(schemaNamespace string) {
	b.start(prefixEnvelope+":Envelope",
		xml.Attr{Name: xml.Name{Local: "xmlns:" + prefixSchema}, Value: schemaNamespace},
		xml.Attr{Name: xml.Name{Local: "xmlns:" + prefixBody}, Value: types.NamespaceSOAPEnvelope},
		xml.Attr{Name: xml.Name{Local: "xmlns:xsi"}, Value: types.NamespaceXSI},
		xml.Attr{Name: xml.Name{Local: "xmlns:" + prefixEnvelope}, Value: types.NamespaceSOAPEnvelope},
	)
	b.leaf(prefixEnvelope+":Header", "")
	b.start(prefixBody + ":Body")
}

func (b *builder) close() {
	b.end(prefixBody + ":Body")
	b.end(prefixEnvelope + ":Envelope")
}

// BuildSelectCmDeviceExt returns the selectCmDeviceExt request for the criteria.
// Field values are written exactly as given, apart from XML escaping.
func BuildSelectCmDeviceExt(criteria types.QueryCriteria) ([]byte, error) {
	b := newBuilder()
	b.open(types.NamespaceRIS)
	b.start(schema("selectCmDeviceExt"))
	b.leaf(schema("StateInfo"), "")
	b.start(schema("CmSelectionCriteria"))
	b.leaf(schema("MaxReturnedDevices"), strconv.Itoa(types.MaxReturnedDevices))
	b.leaf(schema("DeviceClass"), string(criteria.DeviceClass))
	b.leaf(schema("Model"), criteria.Model)
	b.leaf(schema("Status"), string(criteria.Status))
	b.leaf(schema("NodeName"), criteria.NodeName)
	b.leaf(schema("SelectBy"), string(criteria.SelectBy))
	b.start(schema("SelectItems"))
	for _, item := range criteria.SelectItems {
		b.start(schema("item"))
		b.leaf(schema("Item"), item)
		b.end(schema("item"))
	}
	b.end(schema("SelectItems"))
	b.leaf(schema("Protocol"), string(criteria.Protocol))
	b.leaf(schema("DownloadStatus"), string(criteria.DownloadStatus))
	b.end(schema("CmSelectionCriteria"))
	b.end(schema("selectCmDeviceExt"))
	b.close()
	return b.bytes()
}

// BuildGetServerInfo returns the getServerInfo request listing each host in order.
func BuildGetServerInfo(query types.ServerQuery) ([]byte, error) {
	b := newBuilder()
	b.open(types.NamespaceRisPort)
	b.start(schema("getServerInfo"))
	b.start(schema("Hosts"))
	for _, host := range query.Hosts {
		b.leaf(schema("Name"), host)
	}
	b.end(schema("Hosts"))
	b.end(schema("getServerInfo"))
	b.close()
	return b.bytes()
}
