package domain

import (
	"sort"
	"strconv"
)

// Tag prefixes written to Shopify orders and customers.
const (
	TagPrefixSubscriptionID = "seal_sub_id_"
	TagPrefixMinCycles      = "seal_min_cycles_"
)

// DeriveTags converts subscription summaries into a deduplicated tag list.
// Every subscription yields seal_sub_id_<id>; subscriptions with a minimum
// cycle count also yield seal_min_cycles_<n>. The result does not depend on
// input order: id tags come first, then min-cycle tags, each group sorted.
func DeriveTags(summaries []Summary) []string {
	idTags := make(map[string]struct{}, len(summaries))
	cycleTags := make(map[string]struct{})

	for _, s := range summaries {
		if s.ID != "" {
			idTags[TagPrefixSubscriptionID+string(s.ID)] = struct{}{}
		}
		if s.BillingMinCycles != nil {
			cycleTags[TagPrefixMinCycles+strconv.Itoa(*s.BillingMinCycles)] = struct{}{}
		}
	}

	out := make([]string, 0, len(idTags)+len(cycleTags))
	out = append(out, sortedKeys(idTags)...)
	out = append(out, sortedKeys(cycleTags)...)
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
