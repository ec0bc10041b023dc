// Package document classifies the lines of an indentation-significant scene
// file and reconstructs the key address of any line from the flat text.
//
// Nothing here caches: every query reads the current line text, so results
// always reflect the buffer as it is when asked.
package document
