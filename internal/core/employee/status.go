package employee

// StatusChange は 1 回の書き込みで ongoing / finish date について何が指定されたかを表します。
type StatusChange struct {
	// Ongoing は書き込みで明示的に指定された ongoing の値です。nil は未指定。
	Ongoing *bool
	// FinishDateSet は finish date が書き込みに含まれていたかどうかです (null 指定を含む)。
	FinishDateSet bool
}

// ApplyStatus は全フィールドのコピー後のレコードに対して ongoing と finish date の
// 整合性ルールを適用します。修復できない矛盾の場合はエラーを返します。
//
//   - ongoing=true が明示されたら finish date を消去する (同時に指定された finish date より優先)
//   - ongoing 未指定で finish date が指定されたら ongoing=false とする
//   - ongoing のレコードは finish date を持たない
//   - ongoing でないレコードは start date 以降の finish date を必ず持つ
func ApplyStatus(e *Employee, change StatusChange) error {
	switch {
	case change.Ongoing != nil:
		e.Ongoing = *change.Ongoing
	case change.FinishDateSet && e.FinishDate != nil:
		e.Ongoing = false
	}

	if e.Ongoing {
		e.FinishDate = nil
		return nil
	}

	if e.FinishDate == nil {
		return ErrFinishDateRequired
	}
	if e.FinishDate.Before(e.StartDate) {
		return ErrFinishBeforeStart
	}
	return nil
}
