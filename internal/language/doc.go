// Package language converts subtitle language codes into display names and
// matches container stream tags against requested languages.
//
// Subliminal accepts ISO 639-1 codes while media containers usually tag
// streams with ISO 639-2 codes, so matching is tolerant across both forms.
package language
