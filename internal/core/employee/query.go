package employee

import "slices"

// Query は絞り込み・並び替え・ページングをまとめた正規化済みの検索条件です。
// ストア実装はこれをそのまま SQL に変換するか、Run でメモリ上で評価します。
type Query struct {
	Filter Filter
	Sort   Sort
	Page   PageRequest
}

// Run は母集団に Query を適用し、該当ページと絞り込み後の総件数を返します。
// population 自体は変更しません。
func Run(population []*Employee, q Query) ([]*Employee, int) {
	preds := q.Filter.Predicates()

	matched := make([]*Employee, 0, len(population))
	for _, e := range population {
		if matchAll(preds, e) {
			matched = append(matched, e)
		}
	}

	total := len(matched)
	if q.Page.Size <= 0 || q.Page.Page >= TotalPages(total, q.Page.Size) {
		return []*Employee{}, total
	}

	slices.SortFunc(matched, q.Sort.Compare)

	start := q.Page.Offset()
	end := min(start+q.Page.Size, total)
	return matched[start:end], total
}
