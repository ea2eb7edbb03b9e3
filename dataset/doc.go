// Package dataset opens PSF files and answers queries about their signals.
//
// A Dataset is created closed with New, then opened. Open locates the
// sections, decodes the header, type, sweep and trace catalogs and prepares
// the value section. Non-swept values are decoded eagerly; swept signals are
// decoded on demand by scanning the value section once per query.
//
//	ds, err := dataset.New("tran.tran", dataset.WithLogger(slog.Default()))
//	if err != nil {
//	    return err
//	}
//	if err := ds.Open(); err != nil {
//	    return err
//	}
//	defer ds.Close()
//
//	vout, err := ds.SignalVector("vout")
//
// Queries on a closed Dataset fail with errs.ErrDataSetNotOpen.
package dataset
