package decision

// Domain is the problem area a decision belongs to.
type Domain string

// Domain tag constants.
const (
	DomainGeneral      Domain = "general"
	DomainArchitecture Domain = "software_architecture"
	DomainUX           Domain = "ux_design"
	DomainFrontend     Domain = "frontend"
	DomainBackend      Domain = "backend"
	DomainInfra        Domain = "infrastructure"
	DomainData         Domain = "data"
	DomainSecurity     Domain = "security"
	DomainProduct      Domain = "product"
	DomainProcess      Domain = "process"
)

var knownDomains = map[Domain]bool{
	DomainGeneral:      true,
	DomainArchitecture: true,
	DomainUX:           true,
	DomainFrontend:     true,
	DomainBackend:      true,
	DomainInfra:        true,
	DomainData:         true,
	DomainSecurity:     true,
	DomainProduct:      true,
	DomainProcess:      true,
}

// IsValid checks if the domain is one of the supported tags.
func (d Domain) IsValid() bool {
	return knownDomains[d]
}

// NormalizeDomain maps unknown or empty tags to the general domain.
func NormalizeDomain(d Domain) Domain {
	if !d.IsValid() {
		return DomainGeneral
	}
	return d
}
