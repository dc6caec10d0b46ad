package domain

import (
	"fmt"
	"sort"

	"github.com/olusolaa/arrayctl/internal/errors"
)

type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
	FieldBool   FieldType = "bool"
	FieldList   FieldType = "list"
)

// FieldSchema describes how one managed field is validated and compared.
type FieldSchema struct {
	Type FieldType
	// Ordered makes list comparison order-sensitive; lists otherwise compare as sets.
	Ordered bool
	// CaseInsensitive folds case before comparing, for values the array treats
	// case-insensitively.
	CaseInsensitive bool
	// Validate is a go-playground/validator tag applied to the normalized value.
	Validate string
}

// KindPolicy is the mutability policy and field schema of one resource kind.
type KindPolicy struct {
	Kind        ResourceKind
	KeyFields   []string
	AllowCreate bool
	AllowModify bool
	AllowDelete bool
	// CreateDeniedCode is the failure reported when the resource is absent and
	// creation is not allowed.
	CreateDeniedCode errors.Code
	Fields           map[string]FieldSchema
	// Exclusive lists groups of fields of which at most one may be set.
	Exclusive [][]string
}

func (p KindPolicy) DeleteDeniedMessage() string {
	return fmt.Sprintf("Deletion of %s is not supported through this interface", p.Kind)
}

func (p KindPolicy) CreateDeniedMessage(key ResourceKey) string {
	return fmt.Sprintf("Creation of %s is not allowed. %s instance %s not found", p.Kind, p.Kind, key)
}

func (p KindPolicy) ModifyDeniedMessage() string {
	return fmt.Sprintf("Modification of %s is not supported through this interface", p.Kind)
}

func (p KindPolicy) AcceptsKey(field string) bool {
	for _, f := range p.KeyFields {
		if f == field {
			return true
		}
	}
	return false
}

// FieldNames returns the managed field names in sorted order.
func (p KindPolicy) FieldNames() []string {
	names := make([]string, 0, len(p.Fields))
	for n := range p.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

const (
	snapshotIntervals = "Five_Minutes Fifteen_Minutes Thirty_Minutes One_Hour Two_Hours Three_Hours Four_Hours Six_Hours Eight_Hours Twelve_Hours One_Day"
	weekDays          = "monday tuesday wednesday thursday friday saturday sunday"
)

var defaultPolicies = map[ResourceKind]KindPolicy{
	KindNTP: {
		Kind:             KindNTP,
		KeyFields:        []string{KeyID},
		AllowModify:      true,
		CreateDeniedCode: errors.CodeNotFound,
		Fields: map[string]FieldSchema{
			NTPAddressesKey: {Type: FieldList, CaseInsensitive: true, Validate: "min=1,dive,hostname|ip"},
		},
	},
	KindDNS: {
		Kind:             KindDNS,
		KeyFields:        []string{KeyID},
		AllowModify:      true,
		CreateDeniedCode: errors.CodeNotFound,
		Fields: map[string]FieldSchema{
			DNSAddressesKey: {Type: FieldList, Ordered: true, Validate: "min=1,max=3,dive,ip"},
		},
	},
	KindSMTP: {
		Kind:             KindSMTP,
		KeyFields:        []string{KeyID},
		AllowModify:      true,
		CreateDeniedCode: errors.CodeNotFound,
		Fields: map[string]FieldSchema{
			SMTPAddressKey:     {Type: FieldString, CaseInsensitive: true, Validate: "hostname|ip"},
			SMTPPortKey:        {Type: FieldNumber, Validate: "min=0,max=65535"},
			SMTPSourceEmailKey: {Type: FieldString, CaseInsensitive: true, Validate: "email"},
		},
	},
	KindRemoteSupportContact: {
		Kind:             KindRemoteSupportContact,
		KeyFields:        []string{KeyID},
		AllowModify:      true,
		CreateDeniedCode: errors.CodeUnsupportedOperation,
		Fields: map[string]FieldSchema{
			ContactFirstNameKey: {Type: FieldString},
			ContactLastNameKey:  {Type: FieldString},
			ContactEmailKey:     {Type: FieldString, CaseInsensitive: true, Validate: "email"},
			ContactPhoneKey:     {Type: FieldString, Validate: "max=32"},
		},
	},
	KindSnapshotRule: {
		Kind:        KindSnapshotRule,
		KeyFields:   []string{KeyID, KeyName},
		AllowCreate: true,
		AllowModify: true,
		AllowDelete: true,
		Fields: map[string]FieldSchema{
			SnapshotIntervalKey:         {Type: FieldString, Validate: "oneof=" + snapshotIntervals},
			SnapshotTimeOfDayKey:        {Type: FieldString, Validate: "datetime=15:04"},
			SnapshotTimezoneKey:         {Type: FieldString},
			SnapshotDaysOfWeekKey:       {Type: FieldList, CaseInsensitive: true, Validate: "dive,oneof=" + weekDays},
			SnapshotDesiredRetentionKey: {Type: FieldNumber, Validate: "min=1,max=8760"},
			SnapshotNASAccessTypeKey:    {Type: FieldString, Validate: "oneof=Protocol Snapshot"},
		},
		Exclusive: [][]string{{SnapshotIntervalKey, SnapshotTimeOfDayKey}},
	},
	KindProtectionPolicy: {
		Kind:        KindProtectionPolicy,
		KeyFields:   []string{KeyID, KeyName},
		AllowCreate: true,
		AllowModify: true,
		AllowDelete: true,
		Fields: map[string]FieldSchema{
			PolicyDescriptionKey:      {Type: FieldString},
			PolicySnapshotRulesKey:    {Type: FieldList},
			PolicyReplicationRulesKey: {Type: FieldList},
		},
	},
	KindNetwork: {
		Kind:             KindNetwork,
		KeyFields:        []string{KeyID, KeyName},
		AllowModify:      true,
		CreateDeniedCode: errors.CodeNotFound,
		Fields: map[string]FieldSchema{
			NetworkGatewayKey:      {Type: FieldString, Validate: "ip"},
			NetworkPrefixLengthKey: {Type: FieldNumber, Validate: "min=1,max=128"},
			NetworkMTUKey:          {Type: FieldNumber, Validate: "min=1280,max=9000"},
			NetworkVLANKey:         {Type: FieldNumber, Validate: "min=0,max=4095"},
			NetworkVirtualIPKey:    {Type: FieldString, Validate: "ip"},
		},
	},
}

// DefaultPolicies returns a fresh copy of the built-in policy table.
func DefaultPolicies() map[ResourceKind]KindPolicy {
	out := make(map[ResourceKind]KindPolicy, len(defaultPolicies))
	for k, p := range defaultPolicies {
		fields := make(map[string]FieldSchema, len(p.Fields))
		for n, f := range p.Fields {
			fields[n] = f
		}
		p.Fields = fields
		p.KeyFields = append([]string(nil), p.KeyFields...)
		out[k] = p
	}
	return out
}
