package rdv

// ToRdv builds an entity from a request. The id and timestamps are left for
// the repository to assign.
func ToRdv(req *RdvRequest) *Rdv {
	return &Rdv{
		PatientID: req.PatientID,
		MedecinID: req.MedecinID,
		Date:      req.Date,
		Motif:     req.Motif,
	}
}

func ToRdvResponse(r *Rdv) *RdvResponse {
	return &RdvResponse{
		ID:        r.ID,
		PatientID: r.PatientID,
		MedecinID: r.MedecinID,
		Date:      r.Date,
		Motif:     r.Motif,
	}
}

// ToRdvResponseList preserves order and never returns nil.
func ToRdvResponseList(rdvs []*Rdv) []*RdvResponse {
	out := make([]*RdvResponse, 0, len(rdvs))
	for _, r := range rdvs {
		out = append(out, ToRdvResponse(r))
	}
	return out
}

// applyRequest copies the fields a caller may change onto an existing entity.
func applyRequest(r *Rdv, req *RdvRequest) {
	r.PatientID = req.PatientID
	r.MedecinID = req.MedecinID
	r.Date = req.Date
	r.Motif = req.Motif
}
