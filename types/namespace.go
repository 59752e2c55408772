package types

const (
	NamespaceSOAPEnvelope = "http://schemas.xmlsoap.org/soap/envelope/"
	NamespaceXSI          = "http://www.w3.org/2001/XMLSchema-instance"
	// NamespaceRIS is the schema namespace of RISService70 (selectCmDeviceExt).
	NamespaceRIS = "http://schemas.cisco.com/ast/soap"
	// NamespaceRisPort is the schema namespace of the legacy RisPort service (getServerInfo).
	NamespaceRisPort = "http://schemas.cisco.com/ast/soap/"
)
