package domain

const (
	// Identifying keys
	KeyID   = "id"
	KeyName = "name"

	// Manifest envelope keys
	KeyKind   = "kind"
	KeyState  = "state"
	KeyFields = "fields"

	// NTP / DNS
	NTPAddressesKey = "addresses"
	DNSAddressesKey = "addresses"

	// SMTP
	SMTPAddressKey     = "address"
	SMTPPortKey        = "port"
	SMTPSourceEmailKey = "source_email"

	// Remote support contact
	ContactFirstNameKey = "first_name"
	ContactLastNameKey  = "last_name"
	ContactEmailKey     = "email"
	ContactPhoneKey     = "phone"

	// Snapshot rule
	SnapshotIntervalKey         = "interval"
	SnapshotTimeOfDayKey        = "time_of_day"
	SnapshotTimezoneKey         = "timezone"
	SnapshotDaysOfWeekKey       = "days_of_week"
	SnapshotDesiredRetentionKey = "desired_retention"
	SnapshotNASAccessTypeKey    = "nas_access_type"

	// Protection policy
	PolicyDescriptionKey      = "description"
	PolicySnapshotRulesKey    = "snapshot_rules"
	PolicyReplicationRulesKey = "replication_rules"

	// Network
	NetworkGatewayKey      = "gateway"
	NetworkPrefixLengthKey = "prefix_length"
	NetworkMTUKey          = "mtu"
	NetworkVLANKey         = "vlan_id"
	NetworkVirtualIPKey    = "cluster_mgmt_address"
)
