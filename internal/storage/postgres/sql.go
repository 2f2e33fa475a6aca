package postgres

import "lightbnb/internal/storage/search"

const userColumns = `id, name, email, password`

const getUserWithEmailSQL = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
`

const getUserWithIDSQL = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
`

const insertUserSQL = `
INSERT INTO users (name, email, password)
VALUES ($1, $2, $3)
RETURNING ` + userColumns

const insertPropertySQL = `
INSERT INTO properties AS p
  (owner_id, title, description, thumbnail_photo_url, cover_photo_url,
   cost_per_night, parking_spaces, number_of_bathrooms, number_of_bedrooms,
   country, street, city, province, post_code, active)
VALUES
  ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + search.PropertyColumns

const insertReviewSQL = `
INSERT INTO property_reviews (guest_id, property_id, reservation_id, rating, message)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

const getAllReservationsSQL = `
SELECT
  res.id, res.start_date, res.end_date, res.property_id, res.guest_id,
  ` + search.PropertyColumns + `,
  AVG(r.rating)::float8 AS average_rating
FROM reservations res
JOIN properties p ON p.id = res.property_id
LEFT JOIN property_reviews r ON r.property_id = p.id
WHERE res.guest_id = $1
  AND res.end_date < now()::date
GROUP BY res.id, p.id
ORDER BY res.start_date ASC, res.id ASC
LIMIT $2
`
