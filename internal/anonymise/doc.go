// Package anonymise detects asset identifiers in maintenance text and maps
// them to stable AssetN labels.
//
// Surface variants such as "ABC 124", "ABC-124" and "ABC124" share one
// canonical key and therefore one label. In dataset mode every key is observed
// before any label is handed out, and labels follow a seeded shuffle of the
// sorted keys so that label numbers reveal nothing about row order or
// frequency. Single-text mode labels keys in first-seen order.
package anonymise
