package provider

// #region stopwords
// stopwords holds folded French and English function words.
var stopwords = map[string]bool{
	// fr
	"le": true, "la": true, "les": true, "un": true, "une": true, "des": true,
	"de": true, "du": true, "et": true, "ou": true, "en": true, "au": true,
	"aux": true, "ce": true, "ces": true, "cet": true, "cette": true, "se": true,
	"sa": true, "son": true, "ses": true, "leur": true, "leurs": true, "il": true,
	"elle": true, "ils": true, "elles": true, "on": true, "nous": true, "vous": true,
	"je": true, "tu": true, "qui": true, "que": true, "qu": true, "quoi": true,
	"dans": true, "par": true, "pour": true, "sur": true, "sous": true, "avec": true,
	"sans": true, "est": true, "sont": true, "etait": true, "etre": true, "ont": true,
	"avoir": true, "pas": true, "ne": true, "plus": true, "mais": true, "donc": true,
	"car": true, "tres": true, "tout": true, "tous": true, "toute": true, "toutes": true,
	"comme": true, "aussi": true, "fait": true, "ete": true, "ai": true, "nos": true,
	// en
	"the": true, "an": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "and": true, "or": true, "but": true, "of": true,
	"to": true, "in": true, "for": true, "with": true, "this": true, "that": true,
	"it": true, "its": true, "as": true, "at": true, "by": true, "from": true,
	"not": true, "no": true, "so": true, "if": true, "then": true, "than": true,
	"we": true, "you": true, "they": true, "he": true, "she": true, "has": true,
	"have": true, "had": true, "do": true, "does": true, "did": true, "very": true,
}

// #endregion stopwords
