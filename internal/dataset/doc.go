// Package dataset holds tabular work-order data in memory and provides the
// row filters and output encoders a normalisation run needs.
//
// Tables are read from CSV with a mandatory header row. Filters return new
// tables and leave the receiver untouched. Output is either CSV or a
// QuickGraph JSON document list.
package dataset
