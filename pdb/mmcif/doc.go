// Package mmcif reads the coordinates of a structure from a file in
// mmCIF format.
//
// We only want the _atom_site table, so most of a file is jumped over.
// A few features of the format keep this simple:
//  1. The first character of a line is decisive. A data item starts
//     with "_", a table with "loop_", a block with "data_" and a comment
//     with "#".
//  2. A text field runs from a line starting with ";" to the next line
//     starting with ";". Anything can be inside, so we skip it whole.
//  3. Values are separated by white space. Quotes only end a value if
//     white space follows, so O5' is one word.
//
// A question mark, ?, means a missing value. A dot, ., means not
// appropriate or deliberately left out.
//
// Mers are named by the author fields (auth_asym_id, auth_seq_id,
// pdbx_PDB_ins_code), as in PDB files, so the same mer has the same name
// in both formats. Models after the first become trajectory frames.
package mmcif
