package vetting

// biometricThreshold is the minimum confidence accepted from the scoring
// provider for both face and ID document matches.
const biometricThreshold = 0.85

// FaceScan is the normalized result of a face-match scoring call.
type FaceScan struct {
	Confidence float64 `json:"confidence"`
}

// IDScan is the normalized result of an ID-document OCR scoring call.
type IDScan struct {
	OCRMatchScore float64 `json:"ocr_match_score"`
	IDNumberMatch bool    `json:"id_number_match"`
}

// EvaluateFace accepts a face scan at or above the confidence threshold.
func EvaluateFace(scan FaceScan) bool {
	return scan.Confidence >= biometricThreshold
}

// EvaluateID accepts an ID scan when the OCR score clears the threshold and
// the extracted ID number matched the customer record.
func EvaluateID(scan IDScan) bool {
	return scan.OCRMatchScore >= biometricThreshold && scan.IDNumberMatch
}
