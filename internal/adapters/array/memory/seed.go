package memory

import "github.com/olusolaa/arrayctl/internal/core/domain"

// FactorySeed is the configuration of a freshly initialized array: the
// singleton settings exist and nothing user-defined does.
func FactorySeed() []domain.CurrentState {
	return []domain.CurrentState{
		{
			Kind:   domain.KindNTP,
			Key:    domain.ResourceKey{ID: "NTP1"},
			Fields: map[string]any{domain.NTPAddressesKey: []any{"pool.ntp.org"}},
		},
		{
			Kind:   domain.KindDNS,
			Key:    domain.ResourceKey{ID: "DNS1"},
			Fields: map[string]any{domain.DNSAddressesKey: []any{"10.0.0.53"}},
		},
		{
			Kind: domain.KindSMTP,
			Key:  domain.ResourceKey{ID: "0"},
			Fields: map[string]any{
				domain.SMTPAddressKey:     "",
				domain.SMTPPortKey:        float64(25),
				domain.SMTPSourceEmailKey: "",
			},
		},
		{
			Kind: domain.KindRemoteSupportContact,
			Key:  domain.ResourceKey{ID: "0"},
			Fields: map[string]any{
				domain.ContactFirstNameKey: "",
				domain.ContactLastNameKey:  "",
				domain.ContactEmailKey:     "",
				domain.ContactPhoneKey:     "",
			},
		},
		{
			Kind: domain.KindRemoteSupportContact,
			Key:  domain.ResourceKey{ID: "1"},
			Fields: map[string]any{
				domain.ContactFirstNameKey: "",
				domain.ContactLastNameKey:  "",
				domain.ContactEmailKey:     "",
				domain.ContactPhoneKey:     "",
			},
		},
		{
			Kind: domain.KindNetwork,
			Key:  domain.ResourceKey{ID: "NW1", Name: "Default Management Network"},
			Fields: map[string]any{
				domain.NetworkGatewayKey:      "10.0.0.1",
				domain.NetworkPrefixLengthKey: float64(24),
				domain.NetworkMTUKey:          float64(1500),
				domain.NetworkVLANKey:         float64(0),
			},
		},
	}
}
