package boundary

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// encodeDistrict and decodeDistrict define the on-disk representation
// of a district record. JSON rather than a generated wire format: there
// is no protobuf schema for district geometry anywhere in the corpus to
// adapt (the teacher's protobuf messages are all consensus-layer types
// with no geospatial analog), and the encoded value never leaves the
// process boundary — it is read back by the same Store that wrote it.
func encodeDistrict(d *District) ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, "boundary: encoding district")
	}
	return b, nil
}

func decodeDistrict(b []byte) (*District, error) {
	d := &District{}
	if err := json.Unmarshal(b, d); err != nil {
		return nil, errors.Wrap(err, "boundary: decoding district")
	}
	return d, nil
}

func encodeCountry(c *Country) ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "boundary: encoding country")
	}
	return b, nil
}

func decodeCountry(b []byte) (*Country, error) {
	c := &Country{}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, "boundary: decoding country")
	}
	return c, nil
}
