package pdb

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/andrew-torda/cmap/pdb/zwrap"
	"github.com/andrew-torda/cmap/structure"
)

// NSites is the number of places we know to download from.
const NSites = 4

// The last site gives mmCIF, which is the only format for the largest
// entries.
var sites = [NSites]struct {
	urlBase   string
	urlSuffix string
	gzipped   bool
}{
	{"https://files.rcsb.org/download/", ".pdb.gz", true},
	{"https://www.ebi.ac.uk/pdbe/entry-files/download/pdb", ".ent", false},
	{"https://ftp.pdbj.org/pub/pdb/data/structures/all/pdb/pdb", ".ent.gz", true},
	{"https://files.rcsb.org/download/", ".cif.gz", true},
}

// getHTTP is given a four letter pdb code. It goes to the protein data
// bank and returns a reader.
// You can pick which site you want with siteNum. If you give a value
// that is too big, we use a modulo to wrap it around, rather than
// generate an error. This makes it easier to cycle through them.
// If it is a gzipping site, we call zwrap to decompress.
func getHTTP(acqCode string, siteNum int) (io.ReadCloser, error) {
	if len(acqCode) != 4 {
		return nil, errors.New("acq code should be four char, not " + acqCode)
	}
	site := sites[siteNum%NSites]
	url := site.urlBase + strings.ToLower(acqCode) + site.urlSuffix

	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.New("Wanted " + acqCode + " using " + url + ", got " + resp.Status)
	}
	if !site.gzipped {
		return resp.Body, nil
	}
	rdr, err := zwrap.Wrap(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	return rdr, nil
}

// Fetch downloads an entry and reads it. siteNum picks the server.
func Fetch(acqCode string, siteNum int, logger *log.Logger) (*structure.Structure, error) {
	rdr, err := getHTTP(acqCode, siteNum)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	site := sites[siteNum%NSites]
	s, err := readerFor(site.urlSuffix)(rdr, strings.ToLower(acqCode))
	if err != nil {
		return nil, errors.New(acqCode + ": " + err.Error())
	}
	if logger != nil {
		logger.Println("fetched", acqCode, s.Len(), "mers")
	}
	return s, nil
}
