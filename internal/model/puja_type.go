package model

import "time"

// PujaType is a catalog entry in the `puja_types` table: a ritual
// service that customers can book.  Catalog rows are read-mostly and
// referenced by bookings with restrict-on-delete semantics, so a row
// that still has bookings can only be deactivated, not deleted.
//
// Fields:
//  PujaTypeID     – auto-increment primary key.
//  PujaTypeName   – display name, 3–500 characters after trimming.
//  Description    – optional free text.
//  Price          – base price, non-negative, stored as DECIMAL(10,2).
//  ImageURL       – optional, ≤500 characters.
//  BenefitOfPooja – optional free text.
//  PoojaDuration  – optional duration text (e.g. "2 hours").
//  RequiredThings – optional free text listing items the customer brings.
//  IsActive       – soft lifecycle flag; deactivation is reversible.
//  CreatedDate    – timestamp of creation.
type PujaType struct {
    PujaTypeID     int64     // puja_types.puja_type_id
    PujaTypeName   string    // puja_types.puja_type_name
    Description    *string   // puja_types.description (nullable)
    Price          float64   // puja_types.price (DECIMAL(10,2))
    ImageURL       *string   // puja_types.image_url (nullable)
    BenefitOfPooja *string   // puja_types.benefit_of_pooja (nullable)
    PoojaDuration  *string   // puja_types.pooja_duration (nullable)
    RequiredThings *string   // puja_types.required_things (nullable)
    IsActive       bool      // puja_types.is_active
    CreatedDate    time.Time // puja_types.created_date
}
