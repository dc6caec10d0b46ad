package domain

import "strings"

type ResourceKind string

const (
	KindNTP                  ResourceKind = "NTP"
	KindSMTP                 ResourceKind = "SMTP"
	KindDNS                  ResourceKind = "DNS"
	KindRemoteSupportContact ResourceKind = "RemoteSupportContact"
	KindSnapshotRule         ResourceKind = "SnapshotRule"
	KindProtectionPolicy     ResourceKind = "ProtectionPolicy"
	KindNetwork              ResourceKind = "Network"
)

var allKinds = []ResourceKind{
	KindNTP,
	KindSMTP,
	KindDNS,
	KindRemoteSupportContact,
	KindSnapshotRule,
	KindProtectionPolicy,
	KindNetwork,
}

func (rk ResourceKind) String() string {
	return string(rk)
}

// AllKinds returns every kind known to the reconciler in a stable order.
func AllKinds() []ResourceKind {
	out := make([]ResourceKind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind resolves a kind name case-insensitively, also accepting the
// snake_case spelling used in manifests ("remote_support_contact").
func ParseKind(s string) (ResourceKind, bool) {
	needle := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "")
	for _, k := range allKinds {
		if strings.ToLower(string(k)) == needle {
			return k, true
		}
	}
	return "", false
}
