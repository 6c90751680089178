package core

import (
	"slices"
	"strconv"
)

// MaxTags is the number of category tags a record can carry (danger_1, danger_2).
const MaxTags = 2

// Severity bounds. Records without a usable score are shown with DefaultSeverity.
const (
	MinSeverity     = 1
	MaxSeverity     = 5
	DefaultSeverity = MinSeverity
)

// DangerOptions is the closed set of hazard categories a record can be tagged with,
// sorted in byte order.
var DangerOptions = sortedTags(
	"Activités Physiques", "Agents biologiques", "Ambiances thermiques", "Bruit",
	"Chimiques", "Chutes d'objets", "Chutes de hauteur", "Chutes de plain pieds",
	"Chutes à l'eau", "Circulation", "Co-Activité", "Eclairage", "Effondrement",
	"Electricité", "Elements sous pression", "Ensevelissement", "Equipement de travail",
	"Espace confinés", "Facteurs humains", "Incendie/Explosion", "Manutention Mécaniques",
	"Poussières", "Projections", "Rayonnements", "Risques Routiers", "Stress",
	"Travail sur écran", "Travailleurs isolés", "Vibrations",
)

var dangerSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(DangerOptions))
	for _, tag := range DangerOptions {
		set[tag] = struct{}{}
	}
	return set
}()

// severityLabels are the mnemonics shown next to each score.
var severityLabels = map[int]string{
	1: "Mineur",
	2: "Faible",
	3: "Modere",
	4: "Serieux",
	5: "Critique",
}

func sortedTags(tags ...string) []string {
	slices.Sort(tags)
	return tags
}

// IsKnownTag reports whether tag belongs to DangerOptions.
func IsKnownTag(tag string) bool {
	_, ok := dangerSet[tag]
	return ok
}

// SeverityOption is one selectable severity score.
type SeverityOption struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// SeverityOptions returns the selectable scores in ascending order.
func SeverityOptions() []SeverityOption {
	opts := make([]SeverityOption, 0, MaxSeverity-MinSeverity+1)
	for s := MinSeverity; s <= MaxSeverity; s++ {
		opts = append(opts, SeverityOption{Score: s, Label: severityLabels[s]})
	}
	return opts
}

// SeverityLabel returns the mnemonic for a score, or the bare number when unknown.
func SeverityLabel(score int) string {
	if label, ok := severityLabels[score]; ok {
		return label
	}
	return strconv.Itoa(score)
}
