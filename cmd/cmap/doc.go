/*
Cmap reads a structure from a PDB file and works out which of its mers
(residues, nucleotides, ions, ligands) are in contact.

Usage:
	cmap [flags] calc file.pdb
	cmap [flags] plot -o map.png file.pdb
	cmap [flags] clusters file.pdb
	cmap [flags] path file.pdb from to
	cmap [flags] score file.pdb mer [mer]

The flags are:
	-c settings
		Settings file (yaml, toml, json). Anything in it can also come
		from the environment as CMAP_KEY, for example CMAP_CRITERION.
	-e expression
		Contact criterion, like "ca & cbx | ion | ring". Leaves are rc, ca,
		cbx, ion, ring, cacbx, default and all. Each leaf may take a
		threshold and margin, ca(7,0.5). The operators, from tightest,
		are ! & ^ |.
	--fetch
		The file argument is a four letter PDB code to be downloaded.
	--frame n
		Use model n (counting from 0) of a multi-model file.
	--log where
		stdout, stderr or a file name for log messages.

Calc writes one line per contact: the two mers and the score, 1 for
uncertain and 2 for certain. Score prints the score of one pair and the
criterion that decided it, or with a single mer, all of its contacts.
*/
package main
