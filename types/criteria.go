package types

import "errors"

/*
 selectCmDeviceExt criteria example (RISService70)

<ns0:CmSelectionCriteria>
  <ns0:MaxReturnedDevices>1000</ns0:MaxReturnedDevices>
  <ns0:DeviceClass>Phone</ns0:DeviceClass>
  <ns0:Model>255</ns0:Model>
  <ns0:Status>Any</ns0:Status>
  <ns0:NodeName></ns0:NodeName>
  <ns0:SelectBy>Name</ns0:SelectBy>
  <ns0:SelectItems><ns0:item><ns0:Item>SEP001E136BF578</ns0:Item></ns0:item></ns0:SelectItems>
  <ns0:Protocol>Any</ns0:Protocol>
  <ns0:DownloadStatus>Any</ns0:DownloadStatus>
</ns0:CmSelectionCriteria>

*/

// The enum values below are the literal protocol tokens. They are case sensitive
// and written to the wire as-is; a wrong spelling is not caught locally.

type SelectBy string

const (
	SelectByName        SelectBy = "Name"
	SelectByIPV4Address SelectBy = "IPV4Address"
	SelectByIPV6Address SelectBy = "IPV6Address"
	SelectByDirNumber   SelectBy = "DirNumber"
	SelectByDescription SelectBy = "Description"
	SelectBySIPStatus   SelectBy = "SIPStatus" // SIP trunks only
)

type DeviceClass string

const (
	DeviceClassAny            DeviceClass = "Any"
	DeviceClassPhone          DeviceClass = "Phone"
	DeviceClassGateway        DeviceClass = "Gateway"
	DeviceClassH323           DeviceClass = "H323"
	DeviceClassCti            DeviceClass = "Cti"
	DeviceClassVoiceMail      DeviceClass = "VoiceMail"
	DeviceClassMediaResources DeviceClass = "MediaResources"
	DeviceClassSIPTrunk       DeviceClass = "SIPTrunk"
	DeviceClassHuntList       DeviceClass = "HuntList"
	DeviceClassUnknown        DeviceClass = "Unknown"
)

type DeviceStatus string

const (
	DeviceStatusAny                 DeviceStatus = "Any"
	DeviceStatusRegistered          DeviceStatus = "Registered"
	DeviceStatusUnRegistered        DeviceStatus = "UnRegistered"
	DeviceStatusRejected            DeviceStatus = "Rejected"
	DeviceStatusPartiallyRegistered DeviceStatus = "PartiallyRegistered"
	DeviceStatusUnknown             DeviceStatus = "Unknown"
)

type DeviceProtocol string

const (
	DeviceProtocolAny     DeviceProtocol = "Any"
	DeviceProtocolSCCP    DeviceProtocol = "SCCP"
	DeviceProtocolSIP     DeviceProtocol = "SIP"
	DeviceProtocolUnknown DeviceProtocol = "Unknown"
)

type DownloadStatus string

const (
	DownloadStatusAny        DownloadStatus = "Any"
	DownloadStatusUpgrading  DownloadStatus = "Upgrading"
	DownloadStatusSuccessful DownloadStatus = "Successful"
	DownloadStatusFailed     DownloadStatus = "Failed"
	DownloadStatusUnknown    DownloadStatus = "Unknown"
)

// AllModels is the model sentinel that matches every device model.
const AllModels = "255"

// MaxReturnedDevices is the per-call ceiling imposed by the protocol. Results are never paginated.
const MaxReturnedDevices = 1000

var (
	ErrNoSelectItems = errors.New("at least one select item is required")
	ErrNoHosts       = errors.New("at least one host is required")
)

// QueryCriteria holds the selection criteria for a device status query.
type QueryCriteria struct {
	SelectItems    []string       `json:"selectItems" yaml:"selectItems"`
	SelectBy       SelectBy       `json:"selectBy" yaml:"selectBy"`
	DeviceClass    DeviceClass    `json:"deviceClass" yaml:"deviceClass"`
	Model          string         `json:"model" yaml:"model"`
	Status         DeviceStatus   `json:"status" yaml:"status"`
	Protocol       DeviceProtocol `json:"protocol" yaml:"protocol"`
	DownloadStatus DownloadStatus `json:"downloadStatus" yaml:"downloadStatus"`
	NodeName       string         `json:"nodeName,omitempty" yaml:"nodeName,omitempty"` // empty searches the whole cluster
}

// DefaultQueryCriteria returns criteria selecting phones by name across the whole cluster.
func DefaultQueryCriteria(items ...string) QueryCriteria {
	return QueryCriteria{
		SelectItems:    items,
		SelectBy:       SelectByName,
		DeviceClass:    DeviceClassPhone,
		Model:          AllModels,
		Status:         DeviceStatusAny,
		Protocol:       DeviceProtocolAny,
		DownloadStatus: DownloadStatusAny,
	}
}

// WithDefaults fills empty fields from DefaultQueryCriteria. Non-empty fields are kept verbatim.
func (q QueryCriteria) WithDefaults() QueryCriteria {
	def := DefaultQueryCriteria()
	if q.SelectBy == "" {
		q.SelectBy = def.SelectBy
	}
	if q.DeviceClass == "" {
		q.DeviceClass = def.DeviceClass
	}
	if q.Model == "" {
		q.Model = def.Model
	}
	if q.Status == "" {
		q.Status = def.Status
	}
	if q.Protocol == "" {
		q.Protocol = def.Protocol
	}
	if q.DownloadStatus == "" {
		q.DownloadStatus = def.DownloadStatus
	}
	return q
}

func (q QueryCriteria) Validate() error {
	if len(q.SelectItems) == 0 {
		return ErrNoSelectItems
	}
	return nil
}

// ServerQuery lists the servers for a server info query, by name or address.
type ServerQuery struct {
	Hosts []string `json:"hosts" yaml:"hosts"`
}

func (q ServerQuery) Validate() error {
	if len(q.Hosts) == 0 {
		return ErrNoHosts
	}
	return nil
}
