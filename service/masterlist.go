package service

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
)

// ReconcileMasterList orders the extracted organizations by the master list
// and reports the ones the master list does not know about.
func ReconcileMasterList(orgs []dto.OrganizationEntry, master dto.MasterList) ([]dto.OrganizationEntry, []dto.OrganizationEntry) {
	return OrderByMasterList(orgs, master), NewOrganizations(orgs, master)
}

// OrderByMasterList returns one entry per master list name, in master list
// order. Names missing from the extraction are zero-filled with FromSource
// false; extracted names missing from the master list are left out. With an
// empty master list the extraction is returned sorted by Norwegian collation.
func OrderByMasterList(orgs []dto.OrganizationEntry, master dto.MasterList) []dto.OrganizationEntry {
	if len(master) == 0 {
		return SortByName(orgs)
	}

	byName := make(map[string]dto.OrganizationEntry, len(orgs))
	for _, org := range orgs {
		key := dto.NormalizeName(org.Name)
		if _, seen := byName[key]; !seen {
			byName[key] = org
		}
	}

	ordered := make([]dto.OrganizationEntry, 0, len(master))
	for _, name := range master {
		org, ok := byName[dto.NormalizeName(name)]
		if !ok {
			ordered = append(ordered, dto.OrganizationEntry{Name: name, Amount: "0"})
			continue
		}
		ordered = append(ordered, dto.OrganizationEntry{
			Name:       name,
			Amount:     org.Amount,
			GiftCount:  org.GiftCount,
			Percentage: org.Percentage,
			FromSource: true,
		})
	}
	return ordered
}

// NewOrganizations returns the extracted entries whose names are not on the
// master list. An empty master list has no baseline, so nothing is new.
func NewOrganizations(orgs []dto.OrganizationEntry, master dto.MasterList) []dto.OrganizationEntry {
	fresh := []dto.OrganizationEntry{}
	if len(master) == 0 {
		return fresh
	}

	known := make(map[string]struct{}, len(master))
	for _, name := range master {
		known[dto.NormalizeName(name)] = struct{}{}
	}
	for _, org := range orgs {
		if _, ok := known[dto.NormalizeName(org.Name)]; !ok {
			fresh = append(fresh, org)
		}
	}
	return fresh
}

// x/text ships no collation rules for nb or no and falls back to the root
// order, which puts æ before a. Nynorsk carries the Norwegian alphabet.
var norwegianCollation = language.MustParse("nn")

// SortByName returns a copy of orgs sorted with Norwegian collation, so
// æ, ø and å sort after z.
func SortByName(orgs []dto.OrganizationEntry) []dto.OrganizationEntry {
	sorted := make([]dto.OrganizationEntry, len(orgs))
	copy(sorted, orgs)

	// collators keep internal buffers, one per call
	c := collate.New(norwegianCollation, collate.IgnoreCase)
	sort.SliceStable(sorted, func(i, j int) bool {
		return c.CompareString(sorted[i].Name, sorted[j].Name) < 0
	})
	return sorted
}
